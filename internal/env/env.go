package env

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

func Must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}
func Get(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" { return def }
	return v
}
func GetInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" { return def }
	i, err := strconv.Atoi(v)
	if err != nil { return def }
	return i
}
func GetFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" { return def }
	f, err := strconv.ParseFloat(v, 64)
	if err != nil { return def }
	return f
}

// GetDuration accepts Go durations ("90s", "2m") or a bare number of seconds.
func GetDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" { return def }
	if d, err := time.ParseDuration(v); err == nil { return d }
	if i, err := strconv.Atoi(v); err == nil { return time.Duration(i) * time.Second }
	return def
}
func GetBool(k string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	return def
}
