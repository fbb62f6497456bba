// Package render turns backend results into display lines, typed sections
// and server-rendered HTML fragments.
package render

import (
	"strings"

	"github.com/sanathboddhula/real-estate-AI-marketer/flyerapi"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var sentinels = map[string]bool{
	"N/A":              true,
	"Data unavailable": true,
	"undefined":        true,
}

// Present reports whether a value is worth displaying. Absent values, the
// empty string and the backend's "not available" sentinels are not; numeric
// zero is.
func Present(v flyerapi.Value) bool {
	if !v.Valid {
		return false
	}
	if v.IsNum {
		return true
	}
	return v.Text != "" && !sentinels[v.Text]
}

var locale = language.AmericanEnglish

// Number groups thousands for numeric values and keeps every fractional
// digit the backend sent. Text values pass through unchanged.
func Number(v flyerapi.Value) string {
	if !v.IsNum {
		return v.Text
	}
	p := message.NewPrinter(locale)
	return p.Sprint(number.Decimal(v.Num, number.MaxFractionDigits(fractionDigits(v.Text))))
}

// Currency renders a dollar amount.
func Currency(v flyerapi.Value) string {
	s := Number(v)
	if strings.HasPrefix(s, "$") {
		return s
	}
	return "$" + s
}

// Percent renders a rate. Backend rates are already in percent units.
func Percent(v flyerapi.Value) string {
	s := Number(v)
	if strings.HasSuffix(s, "%") {
		return s
	}
	if v.IsNum {
		return s + "%"
	}
	return s
}

func fractionDigits(literal string) int {
	if strings.ContainsAny(literal, "eE") {
		return 6
	}
	i := strings.IndexByte(literal, '.')
	if i < 0 {
		return 0
	}
	return len(literal) - i - 1
}
