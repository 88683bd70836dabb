package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hook"
	"github.com/ayusman/mudra/internal/store"
)

// HookRegistry lists discovered hooks.
type HookRegistry interface {
	List() []*hook.Hook
	Get(name string) (*hook.Hook, error)
}

// BindingHandler handles HTTP requests for kind-to-hook bindings.
type BindingHandler struct {
	store *store.Store
	kinds KindController
	hooks HookRegistry
}

// NewBindingHandler creates a new BindingHandler.
func NewBindingHandler(s *store.Store, kinds KindController, hooks HookRegistry) *BindingHandler {
	return &BindingHandler{store: s, kinds: kinds, hooks: hooks}
}

// Routes mounts the handler on r.
func (h *BindingHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
}

type createBindingRequest struct {
	Kind     string          `json:"kind"      validate:"required"`
	HookName string          `json:"hook_name" validate:"required"`
	Config   json.RawMessage `json:"config"`
	Enabled  *bool           `json:"enabled"`
}

type bindingResponse struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	HookName  string          `json:"hook_name"`
	Config    json.RawMessage `json:"config"`
	Enabled   bool            `json:"enabled"`
	CreatedAt string          `json:"created_at"`
}

type listBindingsResponse struct {
	Bindings []bindingResponse `json:"bindings"`
}

func toBindingResponse(b *store.Binding) bindingResponse {
	return bindingResponse{
		ID:        b.ID,
		Kind:      b.Kind,
		HookName:  b.HookName,
		Config:    b.Config,
		Enabled:   b.Enabled,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

// list handles GET /api/bindings.
func (h *BindingHandler) list(w http.ResponseWriter, r *http.Request) {
	bindings, err := h.store.Bindings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bindings")
		return
	}

	response := listBindingsResponse{Bindings: make([]bindingResponse, 0, len(bindings))}
	for _, b := range bindings {
		response.Bindings = append(response.Bindings, toBindingResponse(b))
	}
	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/bindings/{id}.
func (h *BindingHandler) get(w http.ResponseWriter, r *http.Request) {
	b, err := h.store.Bindings().GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}
	writeJSON(w, http.StatusOK, toBindingResponse(b))
}

// create handles POST /api/bindings.
func (h *BindingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createBindingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, ok := h.kinds.Kind(gesture.Kind(req.Kind)); !ok {
		writeError(w, http.StatusBadRequest, "Unknown gesture kind")
		return
	}
	if _, err := h.hooks.Get(req.HookName); err != nil {
		writeError(w, http.StatusBadRequest, "Unknown hook")
		return
	}
	if len(req.Config) > 0 && !json.Valid(req.Config) {
		writeError(w, http.StatusBadRequest, "Invalid config")
		return
	}

	existing, err := h.store.Bindings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create binding")
		return
	}
	for _, b := range existing {
		if b.Kind == req.Kind && b.HookName == req.HookName {
			writeError(w, http.StatusConflict, "Binding already exists")
			return
		}
	}

	b := &store.Binding{
		Kind:     req.Kind,
		HookName: req.HookName,
		Config:   req.Config,
		Enabled:  true,
	}
	if req.Enabled != nil {
		b.Enabled = *req.Enabled
	}
	if b.Config == nil {
		b.Config = json.RawMessage("{}")
	}

	if err := h.store.Bindings().Create(b); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create binding")
		return
	}
	writeJSON(w, http.StatusCreated, toBindingResponse(b))
}

// delete handles DELETE /api/bindings/{id}.
func (h *BindingHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Bindings().Delete(chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete binding")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
