package flyerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

const (
	jsonLimit  = 4 << 20  // 4MB guard
	flyerLimit = 32 << 20 // generated flyers come back inline as base64
)

type Options struct {
	// Timeout bounds each HTTP exchange. Zero means 30s.
	Timeout time.Duration
	// RequestsPerSecond throttles outbound calls; zero disables throttling.
	RequestsPerSecond float64
	Burst             int
}

type Client struct {
	baseURL string
	http    *retryablehttp.Client
	limiter *rate.Limiter
}

func NewClient(baseURL string, opts Options) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.CheckRetry = noRetry
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	rc.HTTPClient.Timeout = opts.Timeout
	if rc.HTTPClient.Timeout <= 0 {
		rc.HTTPClient.Timeout = 30 * time.Second
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    rc,
	}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return c
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Failed requests are surfaced to the user, never replayed.
func noRetry(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	return false, ctx.Err()
}

// LookupProperty backs the debounced background lookup.
func (c *Client) LookupProperty(ctx context.Context, address string) (*PropertyData, error) {
	var out struct {
		PropertyData *PropertyData `json:"property_data"`
	}
	if err := c.postJSON(ctx, "/get-property-data", map[string]string{"address": address}, &out); err != nil {
		return nil, err
	}
	if out.PropertyData == nil {
		return nil, &Error{Endpoint: "/get-property-data", Status: http.StatusOK, Message: "response missing property_data"}
	}
	return out.PropertyData, nil
}

// ParseListing imports a property from an external listing URL.
func (c *Client) ParseListing(ctx context.Context, listingURL string) (*PropertyData, error) {
	var out struct {
		PropertyData *PropertyData `json:"property_data"`
	}
	if err := c.postJSON(ctx, "/api/parse-zillow", map[string]string{"zillow_url": listingURL}, &out); err != nil {
		return nil, err
	}
	if out.PropertyData == nil {
		return nil, &Error{Endpoint: "/api/parse-zillow", Status: http.StatusOK, Message: "response missing property_data"}
	}
	return out.PropertyData, nil
}

// GenerateFlyer posts the flyer form as multipart/form-data.
func (c *Client) GenerateFlyer(ctx context.Context, in FlyerRequest) (*GenerationResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := [][2]string{
		{"address", in.Address},
		{"price", in.Price},
		{"bedrooms", in.Bedrooms},
		{"bathrooms", in.Bathrooms},
		{"template", in.Template},
		{"format", in.Format},
	}
	if in.ZillowImageURL != "" {
		fields = append(fields, [2]string{"zillow_image_url", in.ZillowImageURL})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out GenerationResult
	if err := c.do(ctx, http.MethodPost, "/generate-flyer", body.Bytes(), mw.FormDataContentType(), flyerLimit, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateContent calls one of the AI content endpoints for an address.
func (c *Client) GenerateContent(ctx context.Context, ep Endpoint, address string) (*AIResult, error) {
	var out AIResult
	if err := c.postJSON(ctx, string(ep), map[string]string{"address": address}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EmailFlyer asks the backend to mail a generated flyer.
func (c *Client) EmailFlyer(ctx context.Context, in EmailRequest) (*EmailResult, error) {
	var out EmailResult
	if err := c.postJSON(ctx, "/email-flyer", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download is a streamed flyer file. Callers must close Body.
type Download struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// DownloadFlyer fetches a generated flyer by file name.
func (c *Client) DownloadFlyer(ctx context.Context, filename string) (*Download, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	endpoint := "/download-flyer/" + url.PathEscape(filename)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		closeBody(resp)
		return nil, fmt.Errorf("download %s: %w", filename, err)
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		raw, _ := ioReadAllLimit(resp.Body, jsonLimit)
		return nil, &Error{Endpoint: endpoint, Status: resp.StatusCode, Message: errorText(raw)}
	}
	return &Download{Body: resp.Body, ContentType: resp.Header.Get("Content-Type"), ContentLength: resp.ContentLength}, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in any, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, b, "application/json", jsonLimit, out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, limit int64, out any) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		closeBody(resp)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := ioReadAllLimit(resp.Body, limit)
	if err != nil {
		return fmt.Errorf("%s %s read: %w", method, path, err)
	}
	return decodeEnvelope(path, resp.StatusCode, raw, out)
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// decodeEnvelope applies the backend's {success, error, ...} convention.
// Bodies that are not JSON are transport-class failures, not *Error.
func decodeEnvelope(path string, status int, raw []byte, out any) error {
	var env struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode %s response (status %d): %w", path, status, err)
	}
	if !env.Success {
		return &Error{Endpoint: path, Status: status, Message: env.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", path, err)
	}
	return nil
}

func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
}

func errorText(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		return body.Error
	}
	return ""
}

func ioReadAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, ErrPayloadTooLarge
	}
	return b, nil
}
