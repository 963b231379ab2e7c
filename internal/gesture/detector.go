package gesture

import (
	"time"

	"github.com/pleimann/gesture-pad/internal/pointer"
)

// step is one sample as the states see it
type step struct {
	sample  pointer.Sample
	snap    pointer.Snapshot
	target  any
	context any
}

type state interface {
	kind() Kind
	enter(st step)
	doing(st step)
	exit(st step)
}

// Detector recognizes gestures from a stream of pointer samples and reports
// them to the listeners registered on its embedded Dispatcher. A detector is
// owned by one goroutine: Feed, the scheduler's tasks and every configuration
// call must run there.
type Detector struct {
	*Dispatcher

	policy    *Policy
	scheduler Scheduler
	clock     *ManualClock
	order     *pointer.JoinOrder
	current   state
	token     uint64
	feeding   bool
	last      *step
}

// Option configures a Detector
type Option func(*Detector)

// WithScheduler sets the scheduler timers run on. Without it the detector
// keeps its own ManualClock, driven by sample times; see Clock.
func WithScheduler(s Scheduler) Option {
	return func(d *Detector) { d.scheduler = s }
}

// WithMode sets the initial gesture policy mode
func WithMode(m Mode) Option {
	return func(d *Detector) { d.policy.Select(m) }
}

// WithMultitouch allows or forbids multi-pointer recognition
func WithMultitouch(on bool) Option {
	return func(d *Detector) { d.policy.pending.multitouch = on }
}

// New creates a detector in the Idle state. It panics on invalid thresholds.
func New(th Thresholds, opts ...Option) *Detector {
	if err := th.Validate(); err != nil {
		panic(&ContractError{Op: "New", Err: err})
	}
	d := &Detector{
		Dispatcher: newDispatcher(),
		order:      pointer.NewJoinOrder(),
	}
	d.policy = newPolicy(d, settings{mode: ModeAll, thresholds: th.normalized(), multitouch: true})
	for _, opt := range opts {
		opt(d)
	}
	if d.scheduler == nil {
		d.clock = NewManualClock()
		d.scheduler = d.clock
	}
	d.policy.Commit()
	d.current = d.policy.idle()
	return d
}

// Feed delivers one sample. It panics with a *ContractError on a malformed
// sample or when called from inside a listener. It always returns true.
func (d *Detector) Feed(s pointer.Sample, target, context any) bool {
	if d.feeding {
		violate("Feed", "called re-entrantly while handling %s", s.Action)
	}
	if err := s.Validate(); err != nil {
		panic(&ContractError{Op: "Feed", Err: err})
	}
	// Timers due before this sample fire first
	if d.clock != nil {
		d.clock.AdvanceTo(s.Time)
	}
	d.feeding = true
	defer func() { d.feeding = false }()

	s = d.order.Normalize(s)
	st := step{sample: s, snap: pointer.NewSnapshot(s), target: target, context: context}
	d.last = &st
	d.current.doing(st)
	d.order.Release(s)
	return true
}

// transition exits the current state and enters the one resolved for k.
// Entering Idle first commits any pending settings.
func (d *Detector) transition(k Kind, st step) {
	d.current.exit(st)
	d.token++
	if k == KindIdle {
		d.policy.Commit()
	}
	d.current = d.policy.resolve(k)
	d.current.enter(st)
}

// Clock returns the detector's own clock, or nil when a scheduler was set
// with WithScheduler. The clock follows sample times, so a tap or long press
// whose timer is due after the last sample only fires once the clock is
// advanced past it.
func (d *Detector) Clock() *ManualClock {
	return d.clock
}

// Current returns the kind of the current state
func (d *Detector) Current() Kind {
	return d.current.kind()
}

// Mode returns the committed policy mode
func (d *Detector) Mode() Mode {
	return d.policy.Mode()
}

// Policy returns the detector's gesture policy
func (d *Detector) Policy() *Policy {
	return d.policy
}

// Select switches the policy mode. The switch happens immediately when the
// detector is idle, otherwise when it next returns to Idle.
func (d *Detector) Select(m Mode) {
	d.policy.Select(m)
	d.latchIfIdle()
}

// Reconfigure replaces the thresholds, latched like Select
func (d *Detector) Reconfigure(th Thresholds) error {
	if err := th.Validate(); err != nil {
		return err
	}
	d.policy.pending.thresholds = th.normalized()
	d.latchIfIdle()
	return nil
}

// Thresholds returns the committed thresholds
func (d *Detector) Thresholds() Thresholds {
	return d.policy.committed.thresholds
}

// SetMultitouch allows or forbids multi-pointer recognition, latched like Select
func (d *Detector) SetMultitouch(on bool) {
	d.policy.pending.multitouch = on
	d.latchIfIdle()
}

// Reset cancels any gesture in progress and returns to Idle
func (d *Detector) Reset() {
	if d.current.kind() == KindIdle || d.last == nil {
		d.order.Clear()
		return
	}
	last := d.last.sample
	pointers := last.Down()
	if len(pointers) == 0 {
		pointers = last.Pointers
	}
	cancel := pointer.Sample{Action: pointer.Cancel, Index: -1, Pointers: pointers, Time: last.Time}
	d.transition(KindIdle, step{
		sample:  cancel,
		snap:    pointer.NewSnapshot(cancel),
		target:  d.last.target,
		context: d.last.context,
	})
	d.order.Clear()
}

func (d *Detector) latchIfIdle() {
	if d.current.kind() == KindIdle && d.policy.Commit() {
		d.current = d.policy.idle()
	}
}

func (d *Detector) thresholds() Thresholds {
	return d.policy.committed.thresholds
}

func (d *Detector) multitouch() bool {
	return d.policy.committed.multitouch
}

// timer is a scheduled state task. It is dropped if it was stopped or if the
// detector changed state since it was scheduled.
type timer struct {
	t     Timer
	token uint64
	done  bool
}

func (d *Detector) after(delay time.Duration, fn func()) *timer {
	tm := &timer{token: d.token}
	tm.t = d.scheduler.AfterFunc(delay, func() {
		if tm.done || tm.token != d.token {
			return
		}
		tm.done = true
		fn()
	})
	return tm
}

func (t *timer) stop() {
	if t == nil || t.done {
		return
	}
	t.done = true
	t.t.Stop()
}
