package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/sanathboddhula/real-estate-AI-marketer/flyerapi"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/session"
)

const maxBody = 64 << 10

func decodeJSON(w http.ResponseWriter, req *http.Request, v any) bool {
	req.Body = http.MaxBytesReader(w, req.Body, maxBody)
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		render.Status(req, http.StatusBadRequest)
		render.JSON(w, req, map[string]any{"error": "invalid_json", "detail": err.Error()})
		return false
	}
	return true
}

func writeView(w http.ResponseWriter, req *http.Request, s *session.Session) {
	render.JSON(w, req, map[string]any{"ok": true, "view": s.View()})
}

// writeFailure maps a session error to a status code. The view is included so
// the page can show the notice or error the session recorded.
func writeFailure(w http.ResponseWriter, req *http.Request, s *session.Session, err error) {
	status, code := http.StatusBadGateway, "upstream_unreachable"
	var pe *session.PromptError
	var re *session.RenderError
	switch {
	case errors.As(err, &pe):
		status, code = http.StatusBadRequest, "prompt"
	case errors.As(err, &re):
		status, code = http.StatusInternalServerError, "render_failed"
	case errors.Is(err, session.ErrBusy):
		status, code = http.StatusConflict, "busy"
	default:
		if _, ok := flyerapi.AsError(err); ok {
			code = "backend_error"
		}
	}
	render.Status(req, status)
	render.JSON(w, req, map[string]any{"error": code, "detail": err.Error(), "view": s.View()})
}

func writeError(w http.ResponseWriter, req *http.Request, status int, code, detail string) {
	render.Status(req, status)
	body := map[string]any{"error": code}
	if detail != "" {
		body["detail"] = detail
	}
	render.JSON(w, req, body)
}
