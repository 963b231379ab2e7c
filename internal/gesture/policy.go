package gesture

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Mode selects which gestures the detector recognizes
type Mode uint8

const (
	// ModeAll recognizes taps, long presses, drags and pinches
	ModeAll Mode = iota
	// ModeDragOnly recognizes single pointer drags and nothing else
	ModeDragOnly
)

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeDragOnly:
		return "drag_only"
	default:
		return fmt.Sprintf("unknown(%d)", m)
	}
}

// ParseMode parses "all" or "drag_only", case-insensitively
func ParseMode(s string) (Mode, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "all", "":
		return ModeAll, nil
	case "drag_only":
		return ModeDragOnly, nil
	}
	return 0, fmt.Errorf("unknown gesture policy %q", s)
}

// Kind is a logical state of the recognizer, independent of the mode
type Kind uint8

const (
	KindIdle Kind = iota
	KindSingleFingerPressing
	KindMultiFingerPressing
	KindDrag
	KindPinch
)

func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindSingleFingerPressing:
		return "single_finger_pressing"
	case KindMultiFingerPressing:
		return "multi_finger_pressing"
	case KindDrag:
		return "drag"
	case KindPinch:
		return "pinch"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// MinTapTimeout is the floor applied to Thresholds.TapTimeout
const MinTapTimeout = 150 * time.Millisecond

// Thresholds are the distance, velocity and timing limits of recognition.
// Distances are in pixels, velocities in pixels per second.
type Thresholds struct {
	TouchSlop        float32
	TapSlop          float32
	MinFlingVelocity float32
	MaxFlingVelocity float32
	TapTimeout       time.Duration
	LongPressTimeout time.Duration
}

// DefaultThresholds returns the thresholds of a typical touch screen
func DefaultThresholds() Thresholds {
	return Thresholds{
		TouchSlop:        8,
		TapSlop:          100,
		MinFlingVelocity: 50,
		MaxFlingVelocity: 8000,
		TapTimeout:       MinTapTimeout,
		LongPressTimeout: 500 * time.Millisecond,
	}
}

// Validate reports thresholds the recognizer cannot work with
func (t Thresholds) Validate() error {
	var errs []error
	if t.TouchSlop < 0 {
		errs = append(errs, fmt.Errorf("touch slop must not be negative, got %v", t.TouchSlop))
	}
	if t.TapSlop < 0 {
		errs = append(errs, fmt.Errorf("tap slop must not be negative, got %v", t.TapSlop))
	}
	if t.MinFlingVelocity < 0 || t.MaxFlingVelocity < t.MinFlingVelocity {
		errs = append(errs, fmt.Errorf("fling velocity range [%v, %v] is invalid", t.MinFlingVelocity, t.MaxFlingVelocity))
	}
	if t.TapTimeout < 0 || t.LongPressTimeout <= 0 {
		errs = append(errs, fmt.Errorf("timeouts must be positive, got tap=%s long_press=%s", t.TapTimeout, t.LongPressTimeout))
	}
	return errors.Join(errs...)
}

func (t Thresholds) normalized() Thresholds {
	if t.TapTimeout < MinTapTimeout {
		t.TapTimeout = MinTapTimeout
	}
	return t
}

func (t Thresholds) touchSlopSquare() float32 { return t.TouchSlop * t.TouchSlop }
func (t Thresholds) tapSlopSquare() float32   { return t.TapSlop * t.TapSlop }

// settings is everything that latches at Idle
type settings struct {
	mode       Mode
	thresholds Thresholds
	multitouch bool
}

type stateKey struct {
	mode Mode
	kind Kind
}

// Policy maps logical kinds to the state instances of the committed mode.
// Instances are built lazily and reused, so per-session bookkeeping lives on
// the same object for the whole session.
type Policy struct {
	det       *Detector
	pending   settings
	committed settings
	states    map[stateKey]state
}

func newPolicy(det *Detector, initial settings) *Policy {
	return &Policy{
		det:       det,
		pending:   initial,
		committed: initial,
		states:    make(map[stateKey]state),
	}
}

// Select records the mode to use from the next Idle entry on. It panics on a
// mode it does not know.
func (p *Policy) Select(m Mode) {
	if m != ModeAll && m != ModeDragOnly {
		violate("Select", "unknown mode %d", m)
	}
	p.pending.mode = m
}

// Mode returns the committed mode
func (p *Policy) Mode() Mode {
	return p.committed.mode
}

// Pending returns the mode that will be committed at the next Idle entry
func (p *Policy) Pending() Mode {
	return p.pending.mode
}

// Commit promotes the pending settings and reports whether anything changed.
// New thresholds drop every cached state so they are rebuilt with them.
func (p *Policy) Commit() bool {
	if p.pending == p.committed {
		return false
	}
	if p.pending.thresholds != p.committed.thresholds {
		p.states = make(map[stateKey]state)
	}
	p.committed = p.pending
	return true
}

func (p *Policy) idle() state {
	return p.resolve(KindIdle)
}

func (p *Policy) resolve(k Kind) state {
	mode := p.committed.mode
	if mode == ModeDragOnly && (k == KindMultiFingerPressing || k == KindPinch) {
		k = KindSingleFingerPressing
	}
	key := stateKey{mode: mode, kind: k}
	if s, ok := p.states[key]; ok {
		return s
	}
	s := p.build(key)
	p.states[key] = s
	return s
}

func (p *Policy) build(key stateKey) state {
	th := p.committed.thresholds
	if key.mode == ModeDragOnly {
		switch key.kind {
		case KindIdle:
			return &idle{d: p.det, dragOnly: true}
		case KindSingleFingerPressing:
			return newDragOnlyPressing(p.det, th)
		case KindDrag:
			return newDragOnlyDrag(p.det, th)
		}
	} else {
		switch key.kind {
		case KindIdle:
			return &idle{d: p.det}
		case KindSingleFingerPressing:
			return newSinglePressing(p.det, th)
		case KindMultiFingerPressing:
			return newMultiPressing(p.det, th)
		case KindDrag:
			return newDrag(p.det, th)
		case KindPinch:
			return newPinch(p.det, th)
		}
	}
	violate("resolve", "no state for kind %s in mode %s", key.kind, key.mode)
	return nil
}
