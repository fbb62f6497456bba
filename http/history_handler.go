package httpapi

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/store"
)

// HistoryReader lists generated flyers. *store.Store satisfies it.
type HistoryReader interface {
	RecentFlyers(ctx context.Context, limit int) ([]store.FlyerRecord, error)
}

type HistoryDeps struct {
	// Store is nil when history is disabled.
	Store HistoryReader
	Limit int
}

func RegisterHistory(r chi.Router, d HistoryDeps) {
	r.Get("/history", func(w http.ResponseWriter, req *http.Request) {
		if d.Store == nil {
			writeError(w, req, http.StatusNotFound, "history_disabled", "set PG_DSN to record generated flyers")
			return
		}
		limit := d.Limit
		if v := req.URL.Query().Get("limit"); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				limit = i
			}
		}
		ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
		defer cancel()
		recs, err := d.Store.RecentFlyers(ctx, limit)
		if err != nil {
			log.Printf("[WARN] history query: %v", err)
			writeError(w, req, http.StatusInternalServerError, "db_error", "")
			return
		}
		render.JSON(w, req, map[string]any{"ok": true, "flyers": recs})
	})
}
