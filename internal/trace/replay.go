package trace

import (
	"fmt"
	"slices"
	"time"

	"github.com/pleimann/gesture-pad/internal/gesture"
	"github.com/pleimann/gesture-pad/internal/pointer"
)

// Result is the outcome of replaying a trace
type Result struct {
	Trace   *Trace
	Samples []pointer.Sample
	Events  []gesture.Event
}

// Replay feeds the trace through a fresh detector on a ManualClock. The
// clock is advanced to each sample's time before it is fed, and past the
// last sample until every pending timer has fired. Options are applied after
// the trace's own mode and multitouch settings.
func Replay(tr *Trace, th gesture.Thresholds, opts ...gesture.Option) (*Result, error) {
	samples, err := tr.Samples()
	if err != nil {
		return nil, err
	}
	mode, err := gesture.ParseMode(tr.Mode)
	if err != nil {
		return nil, err
	}
	if err := th.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}

	clock := gesture.NewManualClock()
	base := []gesture.Option{gesture.WithScheduler(clock), gesture.WithMode(mode)}
	if tr.Multitouch != nil {
		base = append(base, gesture.WithMultitouch(*tr.Multitouch))
	}
	det := gesture.New(th, append(base, opts...)...)
	rec := gesture.NewRecorder()
	det.Listen(rec)

	for _, s := range samples {
		clock.AdvanceTo(s.Time)
		det.Feed(s, tr.Name, nil)
	}
	clock.Advance(settle(det.Thresholds()))

	return &Result{Trace: tr, Samples: samples, Events: rec.Events()}, nil
}

// settle is long enough for any timer scheduled by the last sample to fire
func settle(th gesture.Thresholds) time.Duration {
	return max(th.TapTimeout, gesture.MinTapTimeout) + th.LongPressTimeout + time.Millisecond
}

// Names returns the binding key of every event that is not lifecycle
// bookkeeping
func (r *Result) Names() []string {
	var names []string
	for _, e := range r.Events {
		if e.Type == gesture.TypeActionBegin || e.Type == gesture.TypeActionEnd {
			continue
		}
		names = append(names, e.Key())
	}
	return names
}

// Check compares the recognized events against the trace's Expect list.
// Only events whose name or key appears in Expect take part.
func (r *Result) Check() error {
	if len(r.Trace.Expect) == 0 {
		return nil
	}
	got := matching(r.Events, r.Trace.Expect)
	if !slices.Equal(got, r.Trace.Expect) {
		return fmt.Errorf("recognized %v, expected %v", got, r.Trace.Expect)
	}
	return nil
}

func matching(events []gesture.Event, expect []string) []string {
	var got []string
	for _, e := range events {
		switch {
		case slices.Contains(expect, e.Key()):
			got = append(got, e.Key())
		case slices.Contains(expect, e.Name()):
			got = append(got, e.Name())
		}
	}
	return got
}
