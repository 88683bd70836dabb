package hook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/gesture"
)

// writeManifest creates <dir>/<name>/hook.json.
func writeManifest(t *testing.T, dir string, m Manifest) string {
	t.Helper()

	hookDir := filepath.Join(dir, m.Name)
	if err := os.MkdirAll(hookDir, 0755); err != nil {
		t.Fatalf("failed to create hook dir: %v", err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(hookDir, ManifestFile), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return hookDir
}

func TestManager_Discover(t *testing.T) {
	tmpDir := t.TempDir()
	hookDir := writeManifest(t, tmpDir, Manifest{
		Name:        "notify",
		Version:     "1.0.0",
		Description: "A test hook",
		Executable:  "notify",
		Kinds:       []string{"pinch", "grab"},
	})

	manager := NewManager(tmpDir, zerolog.Nop())
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hooks := manager.List()
	if len(hooks) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(hooks))
	}

	h := hooks[0]
	if h.Manifest.Name != "notify" {
		t.Errorf("expected hook name 'notify', got %q", h.Manifest.Name)
	}
	if h.Manifest.Description != "A test hook" {
		t.Errorf("expected description 'A test hook', got %q", h.Manifest.Description)
	}
	if len(h.Manifest.Kinds) != 2 {
		t.Errorf("expected 2 kinds, got %d", len(h.Manifest.Kinds))
	}
	if h.Path != hookDir {
		t.Errorf("expected path %q, got %q", hookDir, h.Path)
	}
	if h.Executable != filepath.Join(hookDir, "notify") {
		t.Errorf("unexpected executable path %q", h.Executable)
	}
}

func TestManager_Discover_SkipsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, Manifest{Name: "good", Executable: "good", Kinds: []string{"pinch"}})
	writeManifest(t, tmpDir, Manifest{Name: "noexec", Kinds: []string{"pinch"}})

	broken := filepath.Join(tmpDir, "broken")
	if err := os.MkdirAll(broken, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(broken, ManifestFile), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "empty"), 0755); err != nil {
		t.Fatal(err)
	}

	manager := NewManager(tmpDir, zerolog.Nop())
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hooks := manager.List()
	if len(hooks) != 1 || hooks[0].Manifest.Name != "good" {
		t.Errorf("expected only the valid hook, got %d hooks", len(hooks))
	}
}

func TestManager_Discover_MissingDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "nope"), zerolog.Nop())
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() should not fail for missing dir: %v", err)
	}
	if len(manager.List()) != 0 {
		t.Error("expected no hooks")
	}
}

func TestManager_Get(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, Manifest{Name: "notify", Executable: "notify"})

	manager := NewManager(tmpDir, zerolog.Nop())
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	if _, err := manager.Get("notify"); err != nil {
		t.Errorf("Get() error = %v", err)
	}
	if _, err := manager.Get("missing"); err != ErrHookNotFound {
		t.Errorf("expected ErrHookNotFound, got %v", err)
	}
	if manager.HookDir() != tmpDir {
		t.Errorf("expected hook dir %q, got %q", tmpDir, manager.HookDir())
	}
}

func TestManager_ForKind(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, Manifest{Name: "b-pinch", Executable: "x", Kinds: []string{"pinch"}})
	writeManifest(t, tmpDir, Manifest{Name: "a-all", Executable: "x", Kinds: []string{AnyKind}})
	writeManifest(t, tmpDir, Manifest{Name: "c-grab", Executable: "x", Kinds: []string{"grab"}})

	manager := NewManager(tmpDir, zerolog.Nop())
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	var names []string
	for _, h := range manager.ForKind(gesture.KindPinch) {
		names = append(names, h.Manifest.Name)
	}
	if len(names) != 2 || names[0] != "a-all" || names[1] != "b-pinch" {
		t.Errorf("expected [a-all b-pinch], got %v", names)
	}
}
