package gesture

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pleimann/gesture-pad/internal/pointer"
)

// Timer is a pending scheduled task
type Timer interface {
	// Stop cancels the task. It reports whether the task was still pending.
	Stop() bool
}

// Scheduler runs delayed tasks on the goroutine that feeds the detector
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Input is one sample for the detector together with the opaque values
// handed back to listeners.
type Input struct {
	Sample  pointer.Sample
	Target  any
	Context any
}

// Loop owns a detector: samples, timer tasks and posted work all run on the
// goroutine that calls Run.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues fn to run on the loop goroutine. Safe from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// AfterFunc schedules f to be posted to the loop after d
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, func() { l.Post(f) })
}

// Run feeds inputs to det and executes queued work until ctx is done or
// inputs is closed.
func (l *Loop) Run(ctx context.Context, det *Detector, inputs <-chan Input) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in, ok := <-inputs:
			if !ok {
				l.drain()
				return nil
			}
			det.Feed(in.Sample, in.Target, in.Context)
		case <-l.wake:
			l.drain()
		}
	}
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		tasks := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range tasks {
			fn()
		}
	}
}

// ManualClock is a deterministic Scheduler. Time only moves when Advance or
// AdvanceTo is called, and due tasks run synchronously in deadline order.
type ManualClock struct {
	now   time.Duration
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	at    time.Duration
	seq   uint64
	fn    func()
	clock *ManualClock
}

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// Now returns the current clock time
func (c *ManualClock) Now() time.Duration {
	return c.now
}

// Pending returns the number of scheduled tasks
func (c *ManualClock) Pending() int {
	return len(c.tasks)
}

func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.seq++
	t := &manualTask{at: c.now + d, seq: c.seq, fn: f, clock: c}
	c.tasks = append(c.tasks, t)
	return t
}

// Advance moves the clock forward by d
func (c *ManualClock) Advance(d time.Duration) {
	c.AdvanceTo(c.now + d)
}

// AdvanceTo moves the clock to t, running every task due on the way. Tasks
// scheduled by a running task are honored if they fall due before t. The
// clock never moves backwards.
func (c *ManualClock) AdvanceTo(t time.Duration) {
	for {
		next := c.next(t)
		if next == nil {
			break
		}
		c.remove(next)
		c.now = next.at
		next.fn()
	}
	if t > c.now {
		c.now = t
	}
}

func (c *ManualClock) next(limit time.Duration) *manualTask {
	if len(c.tasks) == 0 {
		return nil
	}
	sort.SliceStable(c.tasks, func(i, j int) bool {
		if c.tasks[i].at != c.tasks[j].at {
			return c.tasks[i].at < c.tasks[j].at
		}
		return c.tasks[i].seq < c.tasks[j].seq
	})
	if c.tasks[0].at > limit {
		return nil
	}
	return c.tasks[0]
}

func (c *ManualClock) remove(t *manualTask) bool {
	for i, task := range c.tasks {
		if task == t {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (t *manualTask) Stop() bool {
	return t.clock.remove(t)
}
