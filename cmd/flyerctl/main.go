// Command flyerctl runs the studio flow once without a browser: import a
// listing, generate its flyer, optionally generate AI content, and write the
// resulting pages to disk.
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sanathboddhula/real-estate-AI-marketer/flyerapi"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/env"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/form"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/render"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/session"
)

func main() {
	_ = godotenv.Load()

	listingURL := env.Must("FLYERCTL_LISTING_URL")
	baseURL := env.Get("BACKEND_BASE_URL", "http://localhost:5000")
	template := env.Get("FLYERCTL_TEMPLATE", "modern")
	format := env.Get("FLYERCTL_FORMAT", "flyer")
	out := env.Get("FLYERCTL_OUT", "flyer-report.html")
	downloadDir := os.Getenv("FLYERCTL_DOWNLOAD_DIR")
	generateTimeout := env.GetDuration("GENERATE_TIMEOUT", 120*time.Second)
	skipFlyer := parseBool(os.Getenv("FLYERCTL_SKIP_FLYER"), false)

	var kinds []session.ContentKind
	for _, k := range splitList(os.Getenv("FLYERCTL_CONTENT")) {
		kind, ok := session.ParseContentKind(k)
		if !ok {
			log.Fatalf("unknown content kind %q (want one of %v)", k, session.Kinds())
		}
		kinds = append(kinds, kind)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := flyerapi.NewClient(baseURL, flyerapi.Options{Timeout: generateTimeout})
	s := session.New("flyerctl", session.Options{
		Backend:         api,
		RequestTimeout:  env.GetDuration("REQUEST_TIMEOUT", 30*time.Second),
		GenerateTimeout: generateTimeout,
	})
	defer s.Close()

	if err := s.SetField(form.ListingURL, listingURL); err != nil {
		log.Fatal(err)
	}
	if err := s.ImportListing(ctx, listingURL); err != nil {
		log.Fatalf("import %s: %s", listingURL, describe(s, err))
	}
	for f, v := range map[form.Field]string{form.Template: template, form.Format: format} {
		if err := s.SetField(f, v); err != nil {
			log.Fatal(err)
		}
	}

	if !skipFlyer {
		if err := s.Submit(ctx); err != nil {
			log.Fatalf("generate flyer: %s", describe(s, err))
		}
		log.Printf("[INFO] flyer generated: %s", s.View().FlyerPath)
		if err := writePage(out, s.View()); err != nil {
			log.Fatalf("write %s: %v", out, err)
		}
		log.Printf("[INFO] wrote %s", out)
	}

	for _, kind := range kinds {
		if err := s.GenerateContent(ctx, kind); err != nil {
			log.Printf("[WARN] %s content: %s", kind, describe(s, err))
			continue
		}
		path := withSuffix(out, string(kind))
		if err := writePage(path, s.View()); err != nil {
			log.Fatalf("write %s: %v", path, err)
		}
		log.Printf("[INFO] wrote %s (%d sections)", path, len(s.View().Sections))
	}

	if downloadDir != "" && !skipFlyer {
		if err := download(ctx, api, s.FlyerFilename(), downloadDir); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("download: %v", err)
		}
	}
}

// describe prefers the message the session showed the user.
func describe(s *session.Session, err error) string {
	v := s.View()
	if v.ErrorText != "" {
		return v.ErrorText
	}
	if v.Notice != nil && v.Notice.Text != "" {
		return v.Notice.Text
	}
	return err.Error()
}

func writePage(path string, view session.View) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.Page(f, view); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func download(ctx context.Context, api *flyerapi.Client, name, dir string) error {
	if name == "" {
		return errors.New("no flyer to download")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	dl, err := api.DownloadFlyer(ctx, name)
	if err != nil {
		return err
	}
	defer dl.Body.Close()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	n, err := io.Copy(f, dl.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	log.Printf("[INFO] downloaded %s (%d bytes)", path, n)
	return nil
}

func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + suffix + ext
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	fields := strings.FieldsFunc(v, func(r rune) bool {
		switch r {
		case ',', ';', '\n', '\r', '\t':
			return true
		default:
			return false
		}
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func parseBool(v string, def bool) bool {
	if v == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
