package flyerapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, Options{Timeout: 2 * time.Second})
}

func TestLookupProperty(t *testing.T) {
	var gotBody map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get-property-data" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		io.WriteString(w, `{"success": true, "property_data": {"price": 850000, "bedrooms": 4, "bathrooms": "3"}}`)
	})

	data, err := c.LookupProperty(context.Background(), "123 Main Street, Austin TX")
	if err != nil {
		t.Fatalf("LookupProperty() error = %v", err)
	}
	if gotBody["address"] != "123 Main Street, Austin TX" {
		t.Errorf("request address = %q", gotBody["address"])
	}
	if data.Price.String() != "850000" || !data.Price.IsNum {
		t.Errorf("price = %+v", data.Price)
	}
	if data.Bathrooms.String() != "3" || data.Bathrooms.IsNum {
		t.Errorf("bathrooms = %+v", data.Bathrooms)
	}
	if data.Address.Valid {
		t.Errorf("address should be absent, got %+v", data.Address)
	}
}

func TestBackendReportedFailure(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"error": "Property not found"}`, message: "Property not found"},
		{name: "success false", status: http.StatusOK, body: `{"success": false, "error": "Zillow URL is required"}`, message: "Zillow URL is required"},
		{name: "no error text", status: http.StatusInternalServerError, body: `{}`, message: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_, err := c.ParseListing(context.Background(), "https://www.zillow.com/homedetails/1")
			be, ok := AsError(err)
			if !ok {
				t.Fatalf("expected *Error, got %v", err)
			}
			if be.Message != tt.message || be.Status != tt.status {
				t.Errorf("got %+v", be)
			}
		})
	}
}

func TestNonJSONIsTransportFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>")
	})
	_, err := c.GenerateContent(context.Background(), EndpointCMA, "1 Elm St")
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := AsError(err); ok {
		t.Errorf("non-JSON body should not be a backend *Error: %v", err)
	}
}

func TestNoRetryOnServerError(t *testing.T) {
	hits := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"error": "busy"}`)
	})
	_, _ = c.LookupProperty(context.Background(), "123 Main Street")
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
}

func TestGenerateFlyerMultipart(t *testing.T) {
	var form map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		form = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			form[k] = v[0]
		}
		io.WriteString(w, `{
			"success": true,
			"image": "data:image/png;base64,AAAA",
			"flyer_path": "generated/flyer_123.png",
			"mortgage": {"monthly_payment": 2528, "down_payment": 100000, "interest_rate": "6.5%"},
			"neighborhood": {"walkability_score": "Data unavailable", "parks_nearby": 0},
			"property_insights": {"zestimate": "N/A", "page_views": 412}
		}`)
	})

	res, err := c.GenerateFlyer(context.Background(), FlyerRequest{
		Address: "123 Main St", Price: "500000", Bedrooms: "3", Bathrooms: "2",
		Template: "modern", Format: "flyer",
	})
	if err != nil {
		t.Fatalf("GenerateFlyer() error = %v", err)
	}
	want := map[string]string{"address": "123 Main St", "price": "500000", "bedrooms": "3", "bathrooms": "2", "template": "modern", "format": "flyer"}
	for k, v := range want {
		if form[k] != v {
			t.Errorf("form[%s] = %q, want %q", k, form[k], v)
		}
	}
	if _, ok := form["zillow_image_url"]; ok {
		t.Error("zillow_image_url should be omitted when empty")
	}
	if res.FlyerPath != "generated/flyer_123.png" || res.Mortgage == nil || res.Mortgage.MonthlyPayment.Num != 2528 {
		t.Errorf("unexpected result %+v", res)
	}
	if !res.Neighborhood.ParksNearby.IsNum || res.Neighborhood.ParksNearby.Num != 0 {
		t.Errorf("parks_nearby = %+v", res.Neighborhood.ParksNearby)
	}
}

func TestGenerateContentKeepsOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != string(EndpointMarketingAgent) {
			t.Errorf("path = %s", r.URL.Path)
		}
		io.WriteString(w, `{
			"success": true,
			"descriptions": {"mls": "A", "luxury": "B", "family": "C"},
			"social_content": {"instagram": {"post": "p", "hashtags": "#x"}, "twitter": "tweet"},
			"cma_analysis": {"analysis": "fair", "metrics": {"price_per_sqft": "$300", "position": "Below market"}}
		}`)
	})
	res, err := c.GenerateContent(context.Background(), EndpointMarketingAgent, "1 Elm St")
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	var keys []string
	for _, kv := range res.Descriptions {
		keys = append(keys, kv.Key)
	}
	if strings.Join(keys, ",") != "mls,luxury,family" {
		t.Errorf("description order = %v", keys)
	}
	if len(res.SocialContent) != 2 || !res.SocialContent[0].Structured || res.SocialContent[1].Text != "tweet" {
		t.Errorf("social = %+v", res.SocialContent)
	}
	if res.CMAAnalysis == nil || res.CMAAnalysis.Metrics[1].Key != "position" {
		t.Errorf("cma = %+v", res.CMAAnalysis)
	}
}

func TestDownloadFlyerEscapesName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/download-flyer/my%20flyer.png" {
			t.Errorf("path = %s", r.URL.EscapedPath())
		}
		w.Header().Set("Content-Type", "image/png")
		io.WriteString(w, "PNG")
	})
	dl, err := c.DownloadFlyer(context.Background(), "my flyer.png")
	if err != nil {
		t.Fatalf("DownloadFlyer() error = %v", err)
	}
	defer dl.Body.Close()
	b, _ := io.ReadAll(dl.Body)
	if string(b) != "PNG" || dl.ContentType != "image/png" {
		t.Errorf("got %q %q", b, dl.ContentType)
	}
}
