package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/store"
)

// maxEventLimit caps the limit query parameter.
const maxEventLimit = 1000

// EventHandler serves the stored gesture timeline.
type EventHandler struct {
	store *store.Store
}

// NewEventHandler creates a new EventHandler with the given store.
func NewEventHandler(s *store.Store) *EventHandler {
	return &EventHandler{store: s}
}

// Routes mounts the handler on r.
func (h *EventHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Delete("/", h.prune)
	r.Get("/counts", h.counts)
}

type eventResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Hand      string    `json:"hand"`
	Pose      hand.Pose `json:"pose"`
	ElapsedMS int64     `json:"elapsed_ms"`
	CreatedAt string    `json:"created_at"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
}

func toEventResponse(e *store.EventRecord) eventResponse {
	return eventResponse{
		ID:        e.ID,
		Kind:      e.Kind,
		Hand:      e.Chirality,
		Pose:      e.Pose,
		ElapsedMS: e.Elapsed.Milliseconds(),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

// list handles GET /api/events?kind=&hand=&since=&limit=.
func (h *EventHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.EventFilter{Kind: q.Get("kind")}

	if v := q.Get("hand"); v != "" {
		c, err := hand.ParseChirality(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid hand")
			return
		}
		filter.Chirality = c.String()
	}
	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid since, expected RFC3339")
			return
		}
		filter.Since = since
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 || limit > maxEventLimit {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		filter.Limit = limit
	}

	records, err := h.store.Events().List(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	response := listEventsResponse{Events: make([]eventResponse, 0, len(records))}
	for _, e := range records {
		response.Events = append(response.Events, toEventResponse(e))
	}
	writeJSON(w, http.StatusOK, response)
}

// prune handles DELETE /api/events?before=, removing everything when before is absent.
func (h *EventHandler) prune(w http.ResponseWriter, r *http.Request) {
	before := time.Now().Add(time.Second)
	if v := r.URL.Query().Get("before"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid before, expected RFC3339")
			return
		}
		before = t
	}

	n, err := h.store.Events().DeleteBefore(before)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete events")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

// counts handles GET /api/events/counts.
func (h *EventHandler) counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.Events().CountByKind()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count events")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"counts": counts})
}
