package gesture

import (
	"fmt"
	"iter"

	"github.com/ayusman/mudra/internal/hand"
)

// Phase is the position of a scan within the calm, active, calm pulse shape.
// Phases are named in scan order, which runs backward in time.
type Phase int

const (
	// PhaseBeforePulse counts calm samples nearest to now.
	PhaseBeforePulse Phase = iota
	// PhaseInPulse counts active samples older than the calm run.
	PhaseInPulse
	// PhaseAfterPulse is terminal: a calm sample older than the active run was found.
	PhaseAfterPulse
)

func (p Phase) String() string {
	switch p {
	case PhaseBeforePulse:
		return "before_pulse"
	case PhaseInPulse:
		return "in_pulse"
	case PhaseAfterPulse:
		return "after_pulse"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Outcome is the result of feeding one sample to a detector.
type Outcome int

const (
	// Pending means more samples are needed.
	Pending Outcome = iota
	// Rejected means the window cannot contain a completed pulse.
	Rejected
	// Accepted means a completed pulse was found.
	Accepted
)

// State is the per-scan detector state. The zero value starts a new scan.
type State struct {
	Phase Phase
	Count int
}

// Detector classifies a newest-first sequence of samples as containing a
// just-completed pulse. It holds no state between scans.
type Detector struct {
	cfg KindConfig
}

// NewDetector creates a Detector for one gesture kind.
func NewDetector(cfg KindConfig) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg}, nil
}

// Kind returns the gesture kind this detector reports.
func (d *Detector) Kind() Kind {
	return d.cfg.Kind
}

// Config returns the detector configuration.
func (d *Detector) Config() KindConfig {
	return d.cfg
}

// Signal returns the clamped signal value of s.
func (d *Detector) Signal(s hand.Sample) float64 {
	return hand.Clamp01(d.cfg.Signal(s))
}

// active reports whether v lies on the active side of the threshold.
func (d *Detector) active(v float64) bool {
	if d.cfg.Direction == Falling {
		return v <= d.cfg.Threshold
	}
	return v >= d.cfg.Threshold
}

// Step advances st by one normalized value v.
//
// While calm samples arrive in PhaseBeforePulse they are counted. The first
// active sample moves the scan into PhaseInPulse and is counted there too,
// provided at least MinCalm calm samples preceded it. PhaseInPulse counts
// active samples; the first calm sample after at least MinActive of them
// completes the pulse.
func (d *Detector) Step(st *State, v float64) Outcome {
	isActive := d.active(v)

	switch st.Phase {
	case PhaseBeforePulse:
		if !isActive {
			st.Count++
			return Pending
		}
		if st.Count < d.cfg.MinCalm {
			return Rejected
		}
		st.Phase, st.Count = PhaseInPulse, 0
		return d.Step(st, v)

	case PhaseInPulse:
		if isActive {
			st.Count++
			return Pending
		}
		if st.Count < d.cfg.MinActive {
			return Rejected
		}
		st.Phase, st.Count = PhaseAfterPulse, 0
		return Accepted

	default:
		return Accepted
	}
}

// Scan walks samples newest to oldest and stops at the first terminal
// outcome. On acceptance it returns the calm sample that completed the
// pulse; that sample's chirality and pose anchor the emitted event.
func (d *Detector) Scan(samples iter.Seq[hand.Sample]) (hand.Sample, bool) {
	var st State
	for s := range samples {
		switch d.Step(&st, d.Signal(s)) {
		case Accepted:
			return s, true
		case Rejected:
			return hand.Sample{}, false
		}
	}
	return hand.Sample{}, false
}
