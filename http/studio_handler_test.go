package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/http/cookiejar"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sanathboddhula/real-estate-AI-marketer/flyerapi"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/debounce"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/session"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/store"
)

// fakeFlyerAPI answers the backend routes the studio calls.
func fakeFlyerAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/parse-zillow", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if strings.Contains(body["zillow_url"], "bad") {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"success": false, "error": "Invalid Zillow URL"}`)
			return
		}
		io.WriteString(w, `{"success": true, "property_data": {"address": "123 Main St", "price": 500000, "bedrooms": 3, "bathrooms": 2, "image_available": true, "main_image_url": "https://photos.example.com/1.jpg"}}`)
	})
	mux.HandleFunc("/generate-flyer", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success": true, "image": "data:image/png;base64,AAAA", "flyer_path": "generated/flyer_1.png", "mortgage": {"monthly_payment": 2528}}`)
	})
	mux.HandleFunc("/generate-cma", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"success": false, "error": "CMA service unavailable"}`)
	})
	mux.HandleFunc("/generate-descriptions", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success": true, "descriptions": {"mls": "Three bed home"}}`)
	})
	mux.HandleFunc("/download-flyer/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/download-flyer/flyer_1.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		io.WriteString(w, "PNGDATA")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type studioClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func newStudio(t *testing.T, backendURL string) *studioClient {
	t.Helper()
	api := flyerapi.NewClient(backendURL, flyerapi.Options{Timeout: 2 * time.Second})
	reg := session.NewRegistry(session.Options{Backend: api, Scheduler: debounce.NewManual()}, time.Hour)
	t.Cleanup(reg.Close)

	r := chi.NewRouter()
	RegisterStudio(r, StudioDeps{Sessions: reg, Downloads: api})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	return &studioClient{t: t, base: srv.URL, http: &http.Client{Jar: jar}}
}

func (c *studioClient) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, c.base+path, rdr)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func viewOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	v, ok := body["view"].(map[string]any)
	if !ok {
		t.Fatalf("no view in %v", body)
	}
	return v
}

func TestStudioFlow(t *testing.T) {
	c := newStudio(t, fakeFlyerAPI(t).URL)

	status, body := c.do(http.MethodPost, "/studio/generate", nil)
	if status != http.StatusBadRequest || body["error"] != "prompt" {
		t.Fatalf("generate before import: %d %v", status, body)
	}

	status, body = c.do(http.MethodPost, "/studio/import", map[string]string{"zillow_url": "https://www.zillow.com/homedetails/1"})
	if status != http.StatusOK {
		t.Fatalf("import: %d %v", status, body)
	}
	fields := viewOf(t, body)["form"].(map[string]any)["fields"].(map[string]any)
	if fields["price"] != "500000" {
		t.Errorf("price = %v", fields["price"])
	}

	status, body = c.do(http.MethodPost, "/studio/generate", nil)
	if status != http.StatusOK {
		t.Fatalf("generate: %d %v", status, body)
	}
	v := viewOf(t, body)
	if v["flyer_path"] != "generated/flyer_1.png" || v["visibility"].(map[string]any)["results"] != true {
		t.Errorf("view = %v", v)
	}
	for _, ctl := range v["controls"].([]any) {
		if ctl.(map[string]any)["disabled"] == true {
			t.Errorf("control left disabled: %v", ctl)
		}
	}

	resp, err := c.http.Get(c.base + "/studio/download")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(data) != "PNGDATA" {
		t.Errorf("download = %d %q", resp.StatusCode, data)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "flyer_1.png") {
		t.Errorf("content disposition = %q", cd)
	}
}

func TestStudioErrorMapping(t *testing.T) {
	c := newStudio(t, fakeFlyerAPI(t).URL)

	status, body := c.do(http.MethodPost, "/studio/import", map[string]string{"zillow_url": "https://bad.example.com"})
	if status != http.StatusBadGateway || body["error"] != "backend_error" {
		t.Errorf("backend failure: %d %v", status, body)
	}
	notice := viewOf(t, body)["notice"].(map[string]any)
	if notice["text"] != "Error: Invalid Zillow URL" {
		t.Errorf("notice = %v", notice)
	}

	status, body = c.do(http.MethodPost, "/studio/ai/cma", nil)
	if status != http.StatusBadRequest || body["error"] != "prompt" {
		t.Errorf("ai without address: %d %v", status, body)
	}

	c.do(http.MethodPost, "/studio/address", map[string]string{"value": "123 Main St"})
	status, body = c.do(http.MethodPost, "/studio/ai/cma", nil)
	if status != http.StatusBadGateway || body["error"] != "backend_error" {
		t.Errorf("cma failure: %d %v", status, body)
	}

	status, _ = c.do(http.MethodPost, "/studio/ai/horoscope", nil)
	if status != http.StatusNotFound {
		t.Errorf("unknown kind status = %d", status)
	}

	status, body = c.do(http.MethodPost, "/studio/fields", map[string]string{"field": "flyer_path", "value": "x"})
	if status != http.StatusBadRequest || body["error"] != "invalid_field" {
		t.Errorf("invalid field: %d %v", status, body)
	}
}

func TestStudioUnreachableBackend(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	url := dead.URL
	dead.Close()
	c := newStudio(t, url)

	status, body := c.do(http.MethodPost, "/studio/import", map[string]string{"zillow_url": "https://www.zillow.com/homedetails/1"})
	if status != http.StatusBadGateway || body["error"] != "upstream_unreachable" {
		t.Errorf("got %d %v", status, body)
	}
	notice := viewOf(t, body)["notice"].(map[string]any)
	if notice["text"] != "Error: Connection error. Please try again." {
		t.Errorf("notice = %v", notice)
	}
}

func TestStudioRenderFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/parse-zillow", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success": true, "property_data": {"address": "1 Elm St", "price": 300000}}`)
	})
	mux.HandleFunc("/generate-flyer", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success": true, "image": "javascript:alert(1)", "flyer_path": "generated/x.png"}`)
	})
	backend := httptest.NewServer(mux)
	defer backend.Close()
	c := newStudio(t, backend.URL)

	c.do(http.MethodPost, "/studio/import", map[string]string{"zillow_url": "https://www.zillow.com/homedetails/2"})
	status, body := c.do(http.MethodPost, "/studio/generate", nil)
	if status != http.StatusInternalServerError || body["error"] != "render_failed" {
		t.Fatalf("got %d %v", status, body)
	}
	if text := viewOf(t, body)["error_text"]; text != "Failed to generate flyer" {
		t.Errorf("error_text = %v", text)
	}
}

func TestStudioAIContent(t *testing.T) {
	c := newStudio(t, fakeFlyerAPI(t).URL)
	c.do(http.MethodPost, "/studio/address", map[string]string{"value": "123 Main St"})

	status, body := c.do(http.MethodPost, "/studio/ai/descriptions", nil)
	if status != http.StatusOK {
		t.Fatalf("got %d %v", status, body)
	}
	v := viewOf(t, body)
	if v["ai_title"] != "Property Descriptions Generated" {
		t.Errorf("title = %v", v["ai_title"])
	}
	secs := v["sections"].([]any)
	if len(secs) != 1 || secs[0].(map[string]any)["kind"] != "descriptions" {
		t.Errorf("sections = %v", secs)
	}
}

func TestStudioSessionsAreIsolated(t *testing.T) {
	c1 := newStudio(t, fakeFlyerAPI(t).URL)
	c1.do(http.MethodPost, "/studio/address", map[string]string{"value": "1 Elm St"})

	c2 := &studioClient{t: t, base: c1.base, http: &http.Client{}}
	_, body := c2.do(http.MethodGet, "/studio", nil)
	shared := viewOf(t, body)["form"].(map[string]any)["shared"].(map[string]any)
	if shared["shared-address"] == "1 Elm St" {
		t.Errorf("second browser sees first browser's address: %v", shared)
	}

	status, _ := c1.do(http.MethodDelete, "/studio", nil)
	if status != http.StatusOK {
		t.Errorf("delete status = %d", status)
	}
}

func TestPageRenders(t *testing.T) {
	c := newStudio(t, fakeFlyerAPI(t).URL)
	resp, err := c.http.Get(c.base + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	html, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("content type = %q", resp.Header.Get("Content-Type"))
	}
	for _, id := range []string{`id="generate-btn"`, `id="full-agent-btn"`, `id="shared-address"`, "Generate Professional Flyer"} {
		if !strings.Contains(string(html), id) {
			t.Errorf("page missing %s", id)
		}
	}
	for _, path := range []string{`"/studio/address"`, `"/studio/fields"`, `"/studio/notice/dismiss"`} {
		if !strings.Contains(string(html), path) {
			t.Errorf("page script never calls %s", path)
		}
	}

	// Every control the session exposes, plus import and e-mail, must be
	// bound to a route the studio actually serves.
	_, body := c.do(http.MethodGet, "/studio", nil)
	ids := []string{"load-zillow-btn", "email-btn"}
	for _, ctl := range viewOf(t, body)["controls"].([]any) {
		ids = append(ids, ctl.(map[string]any)["id"].(string))
	}
	for _, id := range ids {
		m := regexp.MustCompile(`"` + regexp.QuoteMeta(id) + `":\s*"(/studio/[^"]+)"`).FindSubmatch(html)
		if m == nil {
			t.Errorf("control %s is not bound to an endpoint", id)
			continue
		}
		status, _ := c.do(http.MethodPost, string(m[1]), map[string]string{})
		if status == http.StatusNotFound || status == http.StatusMethodNotAllowed {
			t.Errorf("control %s posts to %s, which answers %d", id, m[1], status)
		}
	}
}

type fakeHistory struct {
	recs []store.FlyerRecord
	err  error
}

func (f fakeHistory) RecentFlyers(_ context.Context, limit int) ([]store.FlyerRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.recs) {
		return f.recs[:limit], nil
	}
	return f.recs, nil
}

func TestHistory(t *testing.T) {
	tests := []struct {
		name   string
		deps   HistoryDeps
		query  string
		status int
		count  int
	}{
		{"disabled", HistoryDeps{}, "", http.StatusNotFound, 0},
		{"limit", HistoryDeps{Store: fakeHistory{recs: make([]store.FlyerRecord, 3)}, Limit: 20}, "?limit=2", http.StatusOK, 2},
		{"db error", HistoryDeps{Store: fakeHistory{err: errors.New("down")}, Limit: 20}, "", http.StatusInternalServerError, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			RegisterHistory(r, tt.deps)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history"+tt.query, nil))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			if tt.status != http.StatusOK {
				return
			}
			var body struct {
				Flyers []store.FlyerRecord `json:"flyers"`
			}
			_ = json.Unmarshal(rec.Body.Bytes(), &body)
			if len(body.Flyers) != tt.count {
				t.Errorf("flyers = %d, want %d", len(body.Flyers), tt.count)
			}
		})
	}
}
