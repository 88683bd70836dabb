// Command system-control is a hook that adjusts volume, brightness and
// media playback via AppleScript. The binding config names the action,
// either for every kind or per kind:
//
//	{"action": "volume-up"}
//	{"kinds": {"pinch": "media-play-pause", "grab": "volume-mute"}}
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"

	"github.com/ayusman/mudra/internal/hook"
)

// Config is the binding config of this hook.
type Config struct {
	Action string            `json:"action"`
	Kinds  map[string]string `json:"kinds"`
}

const volumeStep = 10

// actions maps action names to their AppleScript.
var actions = map[string]string{
	"volume-up":        fmt.Sprintf(`set volume output volume ((output volume of (get volume settings)) + %d)`, volumeStep),
	"volume-down":      fmt.Sprintf(`set volume output volume ((output volume of (get volume settings)) - %d)`, volumeStep),
	"volume-mute":      `set volume output muted (not (output muted of (get volume settings)))`,
	"brightness-up":    keyCode(144),
	"brightness-down":  keyCode(145),
	"media-play-pause": keyCode(100),
	"media-next":       keyCode(101),
	"media-prev":       keyCode(98),
}

func keyCode(code int) string {
	return fmt.Sprintf("tell application \"System Events\"\n\tkey code %d\nend tell", code)
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
	var cfg Config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	action := cfg.Action
	if a, ok := cfg.Kinds[string(req.Event.Kind)]; ok {
		action = a
	}
	if action == "" {
		return nil, errors.New("action is required")
	}

	script, ok := actions[action]
	if !ok {
		return nil, fmt.Errorf("unknown action: %s (known: %v)", action, actionNames())
	}
	if err := runner(script); err != nil {
		return nil, fmt.Errorf("action %s failed: %w", action, err)
	}
	return json.Marshal(map[string]string{"action": action})
}

func actionNames() []string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	output, err := exec.Command("osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
