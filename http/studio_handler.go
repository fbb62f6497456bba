package httpapi

import (
	"bytes"
	"context"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sanathboddhula/real-estate-AI-marketer/flyerapi"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/form"
	page "github.com/sanathboddhula/real-estate-AI-marketer/internal/render"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/session"
)

const sessionCookie = "studio_session"

// Downloader streams generated flyers. *flyerapi.Client satisfies it.
type Downloader interface {
	DownloadFlyer(ctx context.Context, filename string) (*flyerapi.Download, error)
}

type StudioDeps struct {
	Sessions  *session.Registry
	Downloads Downloader
	// DownloadTimeout bounds the proxied download. Zero means 2m.
	DownloadTimeout time.Duration
}

type sessionHandler func(w http.ResponseWriter, req *http.Request, s *session.Session)

// withSession resolves the caller's session from its cookie, creating one
// when the cookie is missing or names an expired session.
func withSession(reg *session.Registry, h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var s *session.Session
		if c, err := req.Cookie(sessionCookie); err == nil {
			s, _ = reg.Get(c.Value)
		}
		if s == nil {
			s = reg.Create()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    s.ID(),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		h(w, req, s)
	}
}

func RegisterStudio(r chi.Router, d StudioDeps) {
	timeout := d.DownloadTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	r.Get("/", withSession(d.Sessions, func(w http.ResponseWriter, req *http.Request, s *session.Session) {
		var buf bytes.Buffer
		if err := page.Page(&buf, s.View()); err != nil {
			log.Printf("[WARN] render page: %v", err)
			writeError(w, req, http.StatusInternalServerError, "render_failed", "")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	}))

	r.Route("/studio", func(r chi.Router) {
		r.Get("/", withSession(d.Sessions, func(w http.ResponseWriter, req *http.Request, s *session.Session) {
			writeView(w, req, s)
		}))

		r.Delete("/", withSession(d.Sessions, func(w http.ResponseWriter, req *http.Request, s *session.Session) {
			d.Sessions.Remove(s.ID())
			http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
			render.JSON(w, req, map[string]any{"ok": true})
		}))

		r.Post("/address", withSession(d.Sessions, func(w http.ResponseWriter, req *http.Request, s *session.Session) {
			var body struct {
				Value string `json:"value"`
			}
			if !decodeJSON(w, req, &body) {
				return
			}
			s.InputAddress(body.Value)
			writeView(w, req, s)
		}))

		r.Post("/fields", withSession(d.Sessions, func(w http.ResponseWriter, req *http.Request, s *session.Session) {
			var body struct {
				Field string `json:"field"`
				Value string `json:"value"`
			}
			if !decodeJSON(w, req, &body) {
				return
			}
			f := form.Field(body.Field)
			var err error
			if form.HasShared(f) {
				err = s.SetSharedField(f, body.Value)
			} else {
				err = s.SetField(f, body.Value)
			}
			if err != nil {
				writeError(w, req, http.StatusBadRequest, "invalid_field", err.Error())
				return
			}
			writeView(w, req, s)
		}))

		r.Post("/import", withSession(d.Sessions, func(w http.ResponseWriter, req *http.Request, s *session.Session) {
			var body struct {
				ZillowURL string `json:"zillow_url"`
			}
			if !decodeJSON(w, req, &body) {
				return
			}
			if err := s.ImportListing(req.Context(), body.ZillowURL); err != nil {
				writeFailure(w, req, s, err)
				return
			}
			writeView(w, req, s)
		}))

		r.Post("/generate", withSession(d.Sessions, func(w http.ResponseWriter, req *http.Request, s *session.Session) {
			if err := s.Submit(req.Context()); err != nil {
				writeFailure(w, req, s, err)
				return
			}
			writeView(w, req, s)
		}))

		r.Post("/ai/{kind}", withSession(d.Sessions, func(w http.ResponseWriter, req *http.Request, s *session.Session) {
			kind, ok := session.ParseContentKind(chi.URLParam(req, "kind"))
			if !ok {
				writeError(w, req, http.StatusNotFound, "unknown_kind", chi.URLParam(req, "kind"))
				return
			}
			if err := s.GenerateContent(req.Context(), kind); err != nil {
				writeFailure(w, req, s, err)
				return
			}
			writeView(w, req, s)
		}))

		r.Post("/email", withSession(d.Sessions, func(w http.ResponseWriter, req *http.Request, s *session.Session) {
			var body struct {
				Email string `json:"email"`
			}
			if !decodeJSON(w, req, &body) {
				return
			}
			if err := s.EmailFlyer(req.Context(), body.Email); err != nil {
				writeFailure(w, req, s, err)
				return
			}
			writeView(w, req, s)
		}))

		r.Post("/notice/dismiss", withSession(d.Sessions, func(w http.ResponseWriter, req *http.Request, s *session.Session) {
			s.DismissNotice()
			writeView(w, req, s)
		}))

		r.Get("/download", withSession(d.Sessions, func(w http.ResponseWriter, req *http.Request, s *session.Session) {
			name := s.FlyerFilename()
			if name == "" {
				writeError(w, req, http.StatusNotFound, "no_flyer", "generate a flyer first")
				return
			}
			ctx, cancel := context.WithTimeout(req.Context(), timeout)
			defer cancel()
			dl, err := d.Downloads.DownloadFlyer(ctx, name)
			if err != nil {
				log.Printf("[WARN] download %s: %v", name, err)
				if be, ok := flyerapi.AsError(err); ok && be.NotFound() {
					writeError(w, req, http.StatusNotFound, "not_found", name)
					return
				}
				writeError(w, req, http.StatusBadGateway, "upstream_unreachable", "")
				return
			}
			defer dl.Body.Close()

			ct := dl.ContentType
			if ct == "" {
				ct = "application/octet-stream"
			}
			w.Header().Set("Content-Type", ct)
			w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
			if dl.ContentLength > 0 {
				w.Header().Set("Content-Length", strconv.FormatInt(dl.ContentLength, 10))
			}
			if _, err := io.Copy(w, dl.Body); err != nil {
				log.Printf("[WARN] download %s copy: %v", name, err)
			}
		}))
	})
}
