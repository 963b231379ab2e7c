package trace

import (
	"sync"
	"time"

	"github.com/pleimann/gesture-pad/internal/gesture"
	"github.com/pleimann/gesture-pad/internal/pointer"
)

// Capture builds a trace from live samples. Times are rebased so the first
// captured sample is at zero. Safe for concurrent use, so samples and
// recognized events may arrive from different goroutines.
type Capture struct {
	mu      sync.Mutex
	trace   Trace
	started bool
	origin  time.Duration
}

// NewCapture starts an empty capture. The mode and multitouch setting are
// stored so a replay recognizes the trace the way it was recorded.
func NewCapture(name string, mode gesture.Mode, multitouch bool) *Capture {
	c := &Capture{trace: Trace{Name: name, Multitouch: &multitouch}}
	if mode != gesture.ModeAll {
		c.trace.Mode = mode.String()
	}
	return c
}

// Add records one sample
func (c *Capture) Add(s pointer.Sample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		c.started = true
		c.origin = s.Time
	}
	s.Time -= c.origin
	c.trace.Steps = append(c.trace.Steps, StepOf(s))
}

// Expect appends a recognized event to the expectations, skipping
// lifecycle and continuous events
func (c *Capture) Expect(e gesture.Event) {
	switch e.Type {
	case gesture.TypeActionBegin, gesture.TypeActionEnd, gesture.TypeDrag, gesture.TypePinch:
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trace.Expect = append(c.trace.Expect, e.Key())
}

// Len returns the number of captured samples
func (c *Capture) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.trace.Steps)
}

// Trace returns a copy of what was captured so far
func (c *Capture) Trace() *Trace {
	c.mu.Lock()
	defer c.mu.Unlock()
	tr := Trace{Name: c.trace.Name, Mode: c.trace.Mode, Multitouch: c.trace.Multitouch}
	tr.Steps = append([]Step(nil), c.trace.Steps...)
	tr.Expect = append([]string(nil), c.trace.Expect...)
	return &tr
}

// Reset drops everything captured
func (c *Capture) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trace = Trace{Name: c.trace.Name, Mode: c.trace.Mode, Multitouch: c.trace.Multitouch}
	c.started = false
}
