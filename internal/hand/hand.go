// Package hand provides the per-frame hand measurement model consumed by gesture recognition.
package hand

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Chirality identifies which physical hand a sample belongs to.
type Chirality int

const (
	// Left is the left hand.
	Left Chirality = iota
	// Right is the right hand.
	Right
)

// String returns "left" or "right".
func (c Chirality) String() string {
	switch c {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("chirality(%d)", int(c))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Chirality) MarshalText() ([]byte, error) {
	if c != Left && c != Right {
		return nil, fmt.Errorf("invalid chirality %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// It accepts "left"/"right" in any case.
func (c *Chirality) UnmarshalText(text []byte) error {
	parsed, err := ParseChirality(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseChirality parses a hand name such as "Left" or "right".
func ParseChirality(s string) (Chirality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	default:
		return Left, fmt.Errorf("unknown chirality %q", s)
	}
}

// Pose is a position and orientation in tracking space.
type Pose struct {
	Position    r3.Vec      `json:"position"`
	Orientation r3.Rotation `json:"orientation"`
}

// IdentityPose returns a pose at p with no rotation.
func IdentityPose(p r3.Vec) Pose {
	return Pose{Position: p, Orientation: r3.Rotation{Real: 1}}
}

// Sample is one hand's measurement for a single frame.
type Sample struct {
	Chirality  Chirality `json:"chirality"`
	Confidence float64   `json:"confidence"`

	// PinchStrength is the device estimate of the pinch pose.
	// Zero is not pinching, one is fully pinched.
	PinchStrength float64 `json:"pinch_strength"`

	// PinchDistance is the raw distance between index finger and thumb tips in device units.
	PinchDistance float64 `json:"pinch_distance"`

	// GrabStrength is the device estimate of the grab pose in [0,1].
	GrabStrength float64 `json:"grab_strength"`

	// Landmarks holds the raw joint positions when the source provides them.
	Landmarks *Landmarks `json:"landmarks,omitempty"`

	// Pose is attached to any gesture emitted for this sample.
	Pose Pose `json:"pose"`
}

// Clamp01 limits v to the closed interval [0,1].
func Clamp01(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
