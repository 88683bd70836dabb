package hand

import "gonum.org/v1/gonum/spatial/r3"

// OpenPalmLandmarks returns a right hand with all fingers extended.
func OpenPalmLandmarks() *Landmarks {
	l := &Landmarks{}

	l[Wrist] = r3.Vec{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	l[ThumbCMC] = r3.Vec{X: 0.55, Y: 0.75, Z: 0.02}
	l[ThumbMCP] = r3.Vec{X: 0.62, Y: 0.70, Z: 0.03}
	l[ThumbIP] = r3.Vec{X: 0.68, Y: 0.65, Z: 0.03}
	l[ThumbTip] = r3.Vec{X: 0.73, Y: 0.60, Z: 0.03}

	l[IndexMCP] = r3.Vec{X: 0.55, Y: 0.68, Z: 0.0}
	l[IndexPIP] = r3.Vec{X: 0.57, Y: 0.55, Z: 0.0}
	l[IndexDIP] = r3.Vec{X: 0.58, Y: 0.45, Z: 0.0}
	l[IndexTip] = r3.Vec{X: 0.58, Y: 0.35, Z: 0.0}

	l[MiddleMCP] = r3.Vec{X: 0.50, Y: 0.66, Z: 0.0}
	l[MiddlePIP] = r3.Vec{X: 0.50, Y: 0.52, Z: 0.0}
	l[MiddleDIP] = r3.Vec{X: 0.50, Y: 0.40, Z: 0.0}
	l[MiddleTip] = r3.Vec{X: 0.50, Y: 0.28, Z: 0.0}

	l[RingMCP] = r3.Vec{X: 0.45, Y: 0.68, Z: 0.0}
	l[RingPIP] = r3.Vec{X: 0.43, Y: 0.55, Z: 0.0}
	l[RingDIP] = r3.Vec{X: 0.42, Y: 0.45, Z: 0.0}
	l[RingTip] = r3.Vec{X: 0.42, Y: 0.35, Z: 0.0}

	l[PinkyMCP] = r3.Vec{X: 0.40, Y: 0.70, Z: 0.0}
	l[PinkyPIP] = r3.Vec{X: 0.37, Y: 0.60, Z: 0.0}
	l[PinkyDIP] = r3.Vec{X: 0.35, Y: 0.50, Z: 0.0}
	l[PinkyTip] = r3.Vec{X: 0.34, Y: 0.42, Z: 0.0}

	return l
}

// PinchedLandmarks returns an open palm whose index tip touches the thumb tip.
func PinchedLandmarks() *Landmarks {
	l := OpenPalmLandmarks()
	l[IndexDIP] = r3.Vec{X: 0.66, Y: 0.55, Z: 0.02}
	l[IndexTip] = r3.Vec{X: 0.72, Y: 0.60, Z: 0.03}
	return l
}

// ThumbsUpLandmarks returns a right hand with the thumb up and the other fingers curled.
func ThumbsUpLandmarks() *Landmarks {
	l := &Landmarks{}

	l[Wrist] = r3.Vec{X: 0.5, Y: 0.8, Z: 0.0}

	l[ThumbCMC] = r3.Vec{X: 0.55, Y: 0.75, Z: 0.0}
	l[ThumbMCP] = r3.Vec{X: 0.58, Y: 0.65, Z: 0.0}
	l[ThumbIP] = r3.Vec{X: 0.58, Y: 0.50, Z: 0.0}
	l[ThumbTip] = r3.Vec{X: 0.58, Y: 0.35, Z: 0.0}

	l[IndexMCP] = r3.Vec{X: 0.55, Y: 0.70, Z: -0.02}
	l[IndexPIP] = r3.Vec{X: 0.55, Y: 0.68, Z: -0.05}
	l[IndexDIP] = r3.Vec{X: 0.52, Y: 0.70, Z: -0.04}
	l[IndexTip] = r3.Vec{X: 0.50, Y: 0.72, Z: -0.02}

	l[MiddleMCP] = r3.Vec{X: 0.50, Y: 0.68, Z: -0.02}
	l[MiddlePIP] = r3.Vec{X: 0.50, Y: 0.66, Z: -0.05}
	l[MiddleDIP] = r3.Vec{X: 0.47, Y: 0.68, Z: -0.04}
	l[MiddleTip] = r3.Vec{X: 0.45, Y: 0.70, Z: -0.02}

	l[RingMCP] = r3.Vec{X: 0.45, Y: 0.70, Z: -0.02}
	l[RingPIP] = r3.Vec{X: 0.45, Y: 0.68, Z: -0.05}
	l[RingDIP] = r3.Vec{X: 0.42, Y: 0.70, Z: -0.04}
	l[RingTip] = r3.Vec{X: 0.40, Y: 0.72, Z: -0.02}

	l[PinkyMCP] = r3.Vec{X: 0.40, Y: 0.72, Z: -0.02}
	l[PinkyPIP] = r3.Vec{X: 0.40, Y: 0.70, Z: -0.05}
	l[PinkyDIP] = r3.Vec{X: 0.37, Y: 0.72, Z: -0.04}
	l[PinkyTip] = r3.Vec{X: 0.35, Y: 0.74, Z: -0.02}

	return l
}
