package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/mudra/internal/app"
)

// Runtime exposes the pipeline toggle and counters.
type Runtime interface {
	IsEnabled() bool
	SetEnabled(enabled bool)
	Stats() app.Stats
}

// StatusHandler serves the recognition toggle and pipeline counters.
type StatusHandler struct {
	rt Runtime
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(rt Runtime) *StatusHandler {
	return &StatusHandler{rt: rt}
}

// Routes mounts the handler on r.
func (h *StatusHandler) Routes(r chi.Router) {
	r.Get("/stats", h.stats)
	r.Get("/enabled", h.getEnabled)
	r.Post("/enabled", h.setEnabled)
}

type enabledRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type enabledResponse struct {
	Enabled bool `json:"enabled"`
}

func (h *StatusHandler) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.rt.Stats())
}

func (h *StatusHandler) getEnabled(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, enabledResponse{Enabled: h.rt.IsEnabled()})
}

// setEnabled handles POST /api/enabled {"enabled": bool}.
func (h *StatusHandler) setEnabled(w http.ResponseWriter, r *http.Request) {
	var req enabledRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.rt.SetEnabled(*req.Enabled)
	writeJSON(w, http.StatusOK, enabledResponse{Enabled: h.rt.IsEnabled()})
}
