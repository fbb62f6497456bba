package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	httpapi "github.com/sanathboddhula/real-estate-AI-marketer/http"
)

type RouterDeps struct {
	RateLimitPerMinute int
	Studio             httpapi.StudioDeps
	History            httpapi.HistoryDeps
}

func BuildRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(httprate.LimitByIP(deps.RateLimitPerMinute, 1*time.Minute)) // protect the flyer backend
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"ok":true}`)) })

	httpapi.RegisterStudio(r, deps.Studio)
	httpapi.RegisterHistory(r, deps.History)

	return r
}
