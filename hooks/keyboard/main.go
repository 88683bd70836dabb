// Command keyboard is a hook that sends a keystroke for each gesture via
// AppleScript. The binding config selects the keystroke:
//
//	{"key": "space", "modifiers": ["command", "shift"]}
//
// A config may instead map gesture kinds to keystrokes:
//
//	{"kinds": {"pinch": {"key": "a"}, "grab": {"key": "b"}}}
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ayusman/mudra/internal/hook"
)

// Keystroke is one key with optional modifiers.
type Keystroke struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"` // command, option, control, shift
}

// Config is the binding config of this hook.
type Config struct {
	Keystroke
	Kinds map[string]Keystroke `json:"kinds"`
}

// modifierMap maps user-friendly modifier names to AppleScript equivalents.
var modifierMap = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

// runner executes an AppleScript; replaced in tests.
var runner = runAppleScript

func main() {
	if err := hook.Serve(os.Stdin, os.Stdout, handle); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func handle(req *hook.Request) (json.RawMessage, error) {
	ks, err := keystrokeFor(req)
	if err != nil {
		return nil, err
	}

	script := buildKeystrokeScript(ks.Key, ks.Modifiers)
	if err := runner(script); err != nil {
		return nil, fmt.Errorf("keystroke %q failed: %w", ks.Key, err)
	}
	return json.Marshal(map[string]string{"script": script})
}

// keystrokeFor picks the keystroke for the event kind, falling back to the
// top-level key.
func keystrokeFor(req *hook.Request) (Keystroke, error) {
	var cfg Config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return Keystroke{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	ks := cfg.Keystroke
	if k, ok := cfg.Kinds[string(req.Event.Kind)]; ok {
		ks = k
	}
	if ks.Key == "" {
		return Keystroke{}, errors.New("key is required")
	}
	return ks, nil
}

// buildKeystrokeScript generates an AppleScript for the given key and modifiers.
func buildKeystrokeScript(key string, modifiers []string) string {
	key = strings.ReplaceAll(key, `"`, `\"`)

	var appleModifiers []string
	for _, mod := range modifiers {
		if appleMod, ok := modifierMap[strings.ToLower(mod)]; ok {
			appleModifiers = append(appleModifiers, appleMod)
		}
	}

	if len(appleModifiers) == 0 {
		return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, key)
	}
	return fmt.Sprintf(`tell application "System Events" to keystroke "%s" using {%s}`, key, strings.Join(appleModifiers, ", "))
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	output, err := exec.Command("osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
