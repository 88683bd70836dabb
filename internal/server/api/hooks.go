package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HookHandler lists the hooks found in the hook directory.
type HookHandler struct {
	hooks HookRegistry
}

// NewHookHandler creates a new HookHandler.
func NewHookHandler(hooks HookRegistry) *HookHandler {
	return &HookHandler{hooks: hooks}
}

// Routes mounts the handler on r.
func (h *HookHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

type hookResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Kinds       []string `json:"kinds"`
	Path        string   `json:"path"`
}

func (h *HookHandler) list(w http.ResponseWriter, r *http.Request) {
	hooks := h.hooks.List()
	response := struct {
		Hooks []hookResponse `json:"hooks"`
	}{Hooks: make([]hookResponse, 0, len(hooks))}

	for _, hk := range hooks {
		kinds := hk.Manifest.Kinds
		if kinds == nil {
			kinds = []string{}
		}
		response.Hooks = append(response.Hooks, hookResponse{
			Name:        hk.Manifest.Name,
			Version:     hk.Manifest.Version,
			Description: hk.Manifest.Description,
			Kinds:       kinds,
			Path:        hk.Path,
		})
	}
	writeJSON(w, http.StatusOK, response)
}
