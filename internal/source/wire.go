package source

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/history"
)

// maxFrameSeconds is the largest frame time a time.Duration can hold.
const maxFrameSeconds = float64(math.MaxInt64 / int64(time.Second))

// wireFrame is one JSON line: {"t": seconds, "hands": [sample|null, sample|null]}.
type wireFrame struct {
	T     float64       `json:"t"`
	Hands []*wireSample `json:"hands"`
}

// wireSample requires the chirality key; its zero value is a valid hand.
type wireSample struct {
	hand.Sample
	Chirality *hand.Chirality `json:"chirality"`
}

// DecodeFrame parses one JSON line. Hands that carry landmarks but no
// strengths get their pinch, grab and pose derived from the landmarks.
func DecodeFrame(line []byte) (Frame, error) {
	var w wireFrame
	if err := json.Unmarshal(line, &w); err != nil {
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	if len(w.Hands) > history.Slots {
		return Frame{}, fmt.Errorf("decode frame: %d hands, at most %d supported", len(w.Hands), history.Slots)
	}
	if w.T < 0 {
		return Frame{}, fmt.Errorf("decode frame: negative time %v", w.T)
	}
	if w.T > maxFrameSeconds {
		return Frame{}, fmt.Errorf("decode frame: time %v out of range", w.T)
	}

	f := Frame{Time: time.Duration(w.T * float64(time.Second))}
	for i, ws := range w.Hands {
		if ws == nil {
			continue
		}
		if ws.Chirality == nil {
			return Frame{}, fmt.Errorf("decode frame: hand %d has no chirality", i)
		}
		s := ws.Sample
		s.Chirality = *ws.Chirality
		if s.Landmarks != nil && s.PinchStrength == 0 && s.GrabStrength == 0 {
			s = hand.FromLandmarks(s.Landmarks, s.Chirality, s.Confidence)
		}
		f.Hands[i] = &s
	}
	return f, nil
}

// EncodeFrame writes f as one JSON line.
func EncodeFrame(w io.Writer, f Frame) error {
	wf := wireFrame{T: f.Time.Seconds()}
	for _, s := range f.Hands {
		if s == nil {
			wf.Hands = append(wf.Hands, nil)
			continue
		}
		c := s.Chirality
		wf.Hands = append(wf.Hands, &wireSample{Sample: *s, Chirality: &c})
	}
	return json.NewEncoder(w).Encode(wf)
}
