// Package hook discovers and runs external programs that react to
// recognized gestures.
package hook

import (
	"encoding/json"
	"slices"

	"github.com/ayusman/mudra/internal/gesture"
)

// ManifestFile is the manifest name inside each hook directory.
const ManifestFile = "hook.json"

// AnyKind in a manifest subscribes a hook to every gesture kind.
const AnyKind = "*"

// Manifest describes a hook's metadata and subscriptions.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Kinds       []string `json:"kinds"`
}

// Request is written to a hook's stdin for each event.
type Request struct {
	Event  gesture.Event   `json:"event"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Response is read from a hook's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Hook represents a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Handles reports whether the manifest subscribes to kind.
func (h *Hook) Handles(kind gesture.Kind) bool {
	return slices.Contains(h.Manifest.Kinds, string(kind)) || slices.Contains(h.Manifest.Kinds, AnyKind)
}
