package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/mudra/internal/gesture"
)

// KindController reads and changes the live per-kind recognizer settings.
type KindController interface {
	Kinds() []gesture.KindConfig
	Kind(k gesture.Kind) (gesture.KindConfig, bool)
	UpdateKind(kc gesture.KindConfig) error
	ResetKind(k gesture.Kind) error
}

// GestureHandler handles HTTP requests for gesture kind settings.
type GestureHandler struct {
	ctl KindController
}

// NewGestureHandler creates a new GestureHandler over ctl.
func NewGestureHandler(ctl KindController) *GestureHandler {
	return &GestureHandler{ctl: ctl}
}

// Routes mounts the handler on r.
func (h *GestureHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{kind}", h.get)
	r.Put("/{kind}", h.update)
	r.Delete("/{kind}", h.reset)
}

// Pointer fields are optional; nil keeps the current value.
type updateGestureRequest struct {
	Threshold   *float64 `json:"threshold"       validate:"omitempty,gt=0,lt=1"`
	Direction   *string  `json:"direction"       validate:"omitempty,oneof=rising falling"`
	MinInterval *int64   `json:"min_interval_ms" validate:"omitempty,gte=0"`
	MinCalm     *int     `json:"min_calm"        validate:"omitempty,gte=1"`
	MinActive   *int     `json:"min_active"      validate:"omitempty,gte=1"`
	Enabled     *bool    `json:"enabled"`
}

type gestureResponse struct {
	Kind        string  `json:"kind"`
	Threshold   float64 `json:"threshold"`
	Direction   string  `json:"direction"`
	MinInterval int64   `json:"min_interval_ms"`
	MinCalm     int     `json:"min_calm"`
	MinActive   int     `json:"min_active"`
	Enabled     bool    `json:"enabled"`
}

type listGesturesResponse struct {
	Gestures []gestureResponse `json:"gestures"`
}

func toGestureResponse(kc gesture.KindConfig) gestureResponse {
	return gestureResponse{
		Kind:        string(kc.Kind),
		Threshold:   kc.Threshold,
		Direction:   kc.Direction.String(),
		MinInterval: kc.MinInterval.Milliseconds(),
		MinCalm:     kc.MinCalm,
		MinActive:   kc.MinActive,
		Enabled:     kc.Enabled,
	}
}

// list handles GET /api/gestures.
func (h *GestureHandler) list(w http.ResponseWriter, r *http.Request) {
	kinds := h.ctl.Kinds()
	response := listGesturesResponse{
		Gestures: make([]gestureResponse, 0, len(kinds)),
	}
	for _, kc := range kinds {
		response.Gestures = append(response.Gestures, toGestureResponse(kc))
	}
	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/gestures/{kind}.
func (h *GestureHandler) get(w http.ResponseWriter, r *http.Request) {
	kc, ok := h.ctl.Kind(gesture.Kind(chi.URLParam(r, "kind")))
	if !ok {
		writeError(w, http.StatusNotFound, "Gesture kind not found")
		return
	}
	writeJSON(w, http.StatusOK, toGestureResponse(kc))
}

// update handles PUT /api/gestures/{kind}. Changes apply to the running
// recognizer immediately.
func (h *GestureHandler) update(w http.ResponseWriter, r *http.Request) {
	kc, ok := h.ctl.Kind(gesture.Kind(chi.URLParam(r, "kind")))
	if !ok {
		writeError(w, http.StatusNotFound, "Gesture kind not found")
		return
	}

	var req updateGestureRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Threshold != nil {
		kc.Threshold = *req.Threshold
	}
	if req.Direction != nil {
		dir, err := gesture.ParseDirection(*req.Direction)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		kc.Direction = dir
	}
	if req.MinInterval != nil {
		kc.MinInterval = time.Duration(*req.MinInterval) * time.Millisecond
	}
	if req.MinCalm != nil {
		kc.MinCalm = *req.MinCalm
	}
	if req.MinActive != nil {
		kc.MinActive = *req.MinActive
	}
	if req.Enabled != nil {
		kc.Enabled = *req.Enabled
	}

	if err := h.ctl.UpdateKind(kc); err != nil {
		writeConfigError(w, err)
		return
	}

	kc, _ = h.ctl.Kind(kc.Kind)
	writeJSON(w, http.StatusOK, toGestureResponse(kc))
}

// reset handles DELETE /api/gestures/{kind}, restoring the configured defaults.
func (h *GestureHandler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.ctl.ResetKind(gesture.Kind(chi.URLParam(r, "kind"))); err != nil {
		writeConfigError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
