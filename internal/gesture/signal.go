package gesture

import "github.com/ayusman/mudra/internal/hand"

// SignalFunc extracts the scalar a detector watches from a sample.
// The recognizer clamps the result to [0,1].
type SignalFunc func(hand.Sample) float64

// PinchStrengthSignal reads the device pinch strength.
func PinchStrengthSignal(s hand.Sample) float64 {
	return s.PinchStrength
}

// GrabStrengthSignal reads the device grab strength.
func GrabStrengthSignal(s hand.Sample) float64 {
	return s.GrabStrength
}

// PinchDistanceSignal maps the raw tip distance to a pinch strength:
// 1 - (distance - minDistance) / maxDistance, clamped to [0,1].
func PinchDistanceSignal(minDistance, maxDistance float64) SignalFunc {
	return func(s hand.Sample) float64 {
		return hand.Clamp01(1 - (s.PinchDistance-minDistance)/maxDistance)
	}
}

// FingerCurlSignal reads the curl of one finger. Samples without landmarks read as straight.
func FingerCurlSignal(f hand.Finger) SignalFunc {
	return func(s hand.Sample) float64 {
		if s.Landmarks == nil {
			return 0
		}
		return s.Landmarks.Curl(f)
	}
}
