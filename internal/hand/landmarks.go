package hand

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// pinchReleasedSpan is the thumb-to-index tip distance, in wrist-to-middle-MCP
// units, at which pinch strength reaches zero.
const pinchReleasedSpan = 1.0

// Finger names one of the five digits.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
)

// Joints returns the four landmark indices of the finger, base to tip.
func (f Finger) Joints() [4]int {
	base := 1 + 4*int(f)
	return [4]int{base, base + 1, base + 2, base + 3}
}

// Landmarks holds the 21 hand joints.
type Landmarks [NumLandmarks]r3.Vec

// Normalize returns the landmarks relative to wrist position and hand size.
// The wrist is moved to the origin and points are scaled so that the distance
// from wrist to middle finger MCP is 1.0.
func (l *Landmarks) Normalize() *Landmarks {
	if l == nil {
		return nil
	}

	wrist := l[Wrist]
	normalized := &Landmarks{}
	for i := range l {
		normalized[i] = r3.Sub(l[i], wrist)
	}

	scale := r3.Norm(normalized[MiddleMCP])
	if scale < 1e-10 {
		return normalized
	}

	for i := range normalized {
		normalized[i] = r3.Scale(1/scale, normalized[i])
	}
	return normalized
}

// PinchDistance is the distance between the thumb tip and the index tip.
func (l *Landmarks) PinchDistance() float64 {
	return r3.Norm(r3.Sub(l[IndexTip], l[ThumbTip]))
}

// PinchStrength estimates how closed the pinch is in [0,1] from hand-size
// normalized tip distance.
func (l *Landmarks) PinchStrength() float64 {
	n := l.Normalize()
	return Clamp01(1 - n.PinchDistance()/pinchReleasedSpan)
}

// Curl returns how bent a finger is in [0,1]: 0 is straight, 1 is folded back
// onto itself. It is the angle between the first and last bone over pi.
func (l *Landmarks) Curl(f Finger) float64 {
	j := f.Joints()
	first := r3.Sub(l[j[1]], l[j[0]])
	last := r3.Sub(l[j[3]], l[j[2]])
	if r3.Norm(first) < 1e-10 || r3.Norm(last) < 1e-10 {
		return 0
	}
	cos := math.Max(-1, math.Min(1, r3.Cos(first, last)))
	return Clamp01(math.Acos(cos) / math.Pi)
}

// GrabStrength is the mean curl of the four non-thumb fingers.
func (l *Landmarks) GrabStrength() float64 {
	var sum float64
	for _, f := range []Finger{Index, Middle, Ring, Pinky} {
		sum += l.Curl(f)
	}
	return sum / 4
}

// PinchPose is the point halfway between the index and thumb tips, facing the index tip.
func (l *Landmarks) PinchPose() Pose {
	index, thumb := l[IndexTip], l[ThumbTip]
	mid := Lerp(index, thumb, 0.5)
	return Pose{Position: mid, Orientation: LookAt(mid, index)}
}

// FromLandmarks derives a Sample from raw joint positions.
func FromLandmarks(l *Landmarks, c Chirality, confidence float64) Sample {
	return Sample{
		Chirality:     c,
		Confidence:    confidence,
		PinchStrength: l.PinchStrength(),
		PinchDistance: l.PinchDistance(),
		GrabStrength:  l.GrabStrength(),
		Landmarks:     l,
		Pose:          l.PinchPose(),
	}
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// forward is the direction an unrotated pose faces.
var forward = r3.Vec{Z: -1}

// LookAt returns the shortest rotation turning the forward axis from eye toward target.
// Coincident points yield the identity rotation.
func LookAt(eye, target r3.Vec) r3.Rotation {
	dir := r3.Sub(target, eye)
	if r3.Norm(dir) < 1e-10 {
		return r3.Rotation{Real: 1}
	}
	dir = r3.Unit(dir)

	axis := r3.Cross(forward, dir)
	dot := math.Max(-1, math.Min(1, r3.Dot(forward, dir)))
	if r3.Norm(axis) < 1e-10 {
		if dot > 0 {
			return r3.Rotation{Real: 1}
		}
		// Facing exactly backwards, turn around the vertical axis.
		return r3.NewRotation(math.Pi, r3.Vec{Y: 1})
	}
	return r3.NewRotation(math.Acos(dot), r3.Unit(axis))
}
