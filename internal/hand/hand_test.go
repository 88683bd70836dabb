package hand

import (
	"encoding/json"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const epsilon = 1e-9

func vecNear(a, b r3.Vec, tol float64) bool {
	return r3.Norm(r3.Sub(a, b)) <= tol
}

func TestLandmarks_Normalize(t *testing.T) {
	t.Run("wrist at origin after normalization", func(t *testing.T) {
		l := &Landmarks{}
		l[Wrist] = r3.Vec{X: 100, Y: 200, Z: 50}
		l[MiddleMCP] = r3.Vec{X: 130, Y: 240, Z: 50}
		for i := 1; i < NumLandmarks; i++ {
			if i != MiddleMCP {
				l[i] = r3.Vec{X: 100 + float64(i)*10, Y: 200 + float64(i)*5, Z: 50 + float64(i)*2}
			}
		}

		normalized := l.Normalize()

		if r3.Norm(normalized[Wrist]) > epsilon {
			t.Errorf("expected wrist at origin, got %v", normalized[Wrist])
		}
		if d := r3.Norm(normalized[MiddleMCP]); math.Abs(d-1) > epsilon {
			t.Errorf("expected distance from wrist to middle MCP to be 1.0, got %f", d)
		}
	})

	t.Run("nil landmarks return nil", func(t *testing.T) {
		var l *Landmarks
		if l.Normalize() != nil {
			t.Error("expected nil result for nil input")
		}
	})

	t.Run("zero scale returns translated only", func(t *testing.T) {
		l := &Landmarks{}
		l[Wrist] = r3.Vec{X: 10, Y: 20, Z: 5}
		l[MiddleMCP] = r3.Vec{X: 10, Y: 20, Z: 5}
		l[IndexTip] = r3.Vec{X: 11, Y: 20, Z: 5}

		normalized := l.Normalize()

		if r3.Norm(normalized[Wrist]) > epsilon {
			t.Errorf("expected wrist at origin, got %v", normalized[Wrist])
		}
		if !vecNear(normalized[IndexTip], r3.Vec{X: 1}, epsilon) {
			t.Errorf("expected index tip translated to (1,0,0), got %v", normalized[IndexTip])
		}
	})
}

func TestLandmarks_PinchStrength(t *testing.T) {
	if s := OpenPalmLandmarks().PinchStrength(); s != 0 {
		t.Errorf("expected open palm pinch strength 0, got %f", s)
	}
	if s := PinchedLandmarks().PinchStrength(); s < 0.9 {
		t.Errorf("expected pinched strength >= 0.9, got %f", s)
	}
}

func TestLandmarks_Curl(t *testing.T) {
	open := OpenPalmLandmarks()
	curled := ThumbsUpLandmarks()

	t.Run("extended index is nearly straight", func(t *testing.T) {
		if c := open.Curl(Index); c > 0.1 {
			t.Errorf("expected index curl < 0.1, got %f", c)
		}
	})

	t.Run("curled index is strongly bent", func(t *testing.T) {
		if c := curled.Curl(Index); c < 0.6 {
			t.Errorf("expected index curl > 0.6, got %f", c)
		}
	})

	t.Run("grab strength orders fist above open palm", func(t *testing.T) {
		if open.GrabStrength() >= curled.GrabStrength() {
			t.Errorf("expected open grab %f < curled grab %f", open.GrabStrength(), curled.GrabStrength())
		}
	})

	t.Run("degenerate bones report zero", func(t *testing.T) {
		l := &Landmarks{}
		if c := l.Curl(Middle); c != 0 {
			t.Errorf("expected 0 for zero-length bones, got %f", c)
		}
	})
}

func TestFinger_Joints(t *testing.T) {
	tests := []struct {
		finger Finger
		want   [4]int
	}{
		{Thumb, [4]int{ThumbCMC, ThumbMCP, ThumbIP, ThumbTip}},
		{Index, [4]int{IndexMCP, IndexPIP, IndexDIP, IndexTip}},
		{Pinky, [4]int{PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip}},
	}
	for _, tt := range tests {
		if got := tt.finger.Joints(); got != tt.want {
			t.Errorf("finger %d: expected joints %v, got %v", tt.finger, tt.want, got)
		}
	}
}

func TestLookAt(t *testing.T) {
	t.Run("forward target gives identity", func(t *testing.T) {
		r := LookAt(r3.Vec{}, r3.Vec{Z: -3})
		if r.Real != 1 {
			t.Errorf("expected identity rotation, got %v", r)
		}
	})

	t.Run("rotated forward points at target", func(t *testing.T) {
		eye := r3.Vec{X: 1, Y: 1, Z: 1}
		target := r3.Vec{X: 4, Y: 1, Z: 1}
		got := LookAt(eye, target).Rotate(forward)
		if !vecNear(got, r3.Vec{X: 1}, 1e-6) {
			t.Errorf("expected forward rotated to +X, got %v", got)
		}
	})

	t.Run("backwards target turns around", func(t *testing.T) {
		got := LookAt(r3.Vec{}, r3.Vec{Z: 2}).Rotate(forward)
		if !vecNear(got, r3.Vec{Z: 1}, 1e-6) {
			t.Errorf("expected forward rotated to +Z, got %v", got)
		}
	})
}

func TestFromLandmarks(t *testing.T) {
	l := PinchedLandmarks()
	s := FromLandmarks(l, Right, 0.95)

	if s.Chirality != Right {
		t.Errorf("expected chirality right, got %v", s.Chirality)
	}
	if s.Landmarks != l {
		t.Error("expected landmarks to be threaded through")
	}
	mid := Lerp(l[IndexTip], l[ThumbTip], 0.5)
	if !vecNear(s.Pose.Position, mid, epsilon) {
		t.Errorf("expected pose at pinch midpoint %v, got %v", mid, s.Pose.Position)
	}
	if math.Abs(s.PinchDistance-l.PinchDistance()) > epsilon {
		t.Errorf("expected pinch distance %f, got %f", l.PinchDistance(), s.PinchDistance)
	}
}

func TestChirality_Text(t *testing.T) {
	t.Run("json round trip", func(t *testing.T) {
		data, err := json.Marshal(struct {
			C Chirality `json:"c"`
		}{Right})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data) != `{"c":"right"}` {
			t.Errorf("unexpected encoding %s", data)
		}

		var out struct {
			C Chirality `json:"c"`
		}
		if err := json.Unmarshal([]byte(`{"c":"Left"}`), &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if out.C != Left {
			t.Errorf("expected left, got %v", out.C)
		}
	})

	t.Run("unknown name is rejected", func(t *testing.T) {
		if _, err := ParseChirality("both"); err == nil {
			t.Error("expected error for unknown chirality")
		}
	})
}

func TestClamp01(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-0.5, 0}, {0.3, 0.3}, {1.7, 1}, {math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%f): expected %f, got %f", tt.in, tt.want, got)
		}
	}
}
