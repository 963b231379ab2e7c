package gesture

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/pleimann/gesture-pad/internal/pointer"
)

func TestManualClockOrder(t *testing.T) {
	c := NewManualClock()
	var order []string
	c.AfterFunc(30*ms, func() { order = append(order, "c") })
	c.AfterFunc(10*ms, func() { order = append(order, "a") })
	c.AfterFunc(10*ms, func() {
		order = append(order, "b")
		// Scheduled while running and still due before the target
		c.AfterFunc(5*ms, func() { order = append(order, "b2") })
	})
	stopped := c.AfterFunc(20*ms, func() { order = append(order, "stopped") })
	if !stopped.Stop() {
		t.Error("Stop() on a pending task = false")
	}
	if stopped.Stop() {
		t.Error("second Stop() = true")
	}

	c.Advance(25 * ms)
	if want := []string{"a", "b", "b2"}; !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	if c.Now() != 25*ms {
		t.Errorf("Now() = %s, want 25ms", c.Now())
	}

	c.AdvanceTo(10 * ms)
	if c.Now() != 25*ms {
		t.Errorf("AdvanceTo into the past moved the clock to %s", c.Now())
	}

	c.Advance(5 * ms)
	if want := []string{"a", "b", "b2", "c"}; !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d", c.Pending())
	}
}

func TestStaleTimerDropped(t *testing.T) {
	c := NewManualClock()
	d := New(DefaultThresholds(), WithScheduler(c))
	fired := false
	d.after(10*ms, func() { fired = true })

	// Any transition invalidates tasks scheduled before it
	d.Feed(pointer.Sample{Action: pointer.Down, Index: 0, Pointers: []pointer.Pointer{pt(0, 0, 0)}}, nil, nil)
	c.Advance(20 * ms)
	if fired {
		t.Error("task from a previous state fired")
	}
}

func TestLoopRunsTimersOnLoopGoroutine(t *testing.T) {
	loop := NewLoop()
	th := DefaultThresholds()
	d := New(th, WithScheduler(loop))

	var mu sync.Mutex
	var got []Type
	d.Listen(NewFunnel(func(e Event) {
		mu.Lock()
		got = append(got, e.Type)
		mu.Unlock()
	}))

	inputs := make(chan Input)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx, d, inputs) }()

	inputs <- Input{Sample: pointer.Sample{Action: pointer.Down, Index: 0, Pointers: []pointer.Pointer{pt(0, 5, 5)}}}
	time.Sleep(10 * time.Millisecond)
	inputs <- Input{Sample: pointer.Sample{Action: pointer.Up, Index: 0, Pointers: []pointer.Pointer{pt(0, 5, 5)}}}

	// Wait past the tap timeout
	time.Sleep(th.TapTimeout + 100*time.Millisecond)

	posted := make(chan Kind, 1)
	loop.Post(func() { posted <- d.Current() })
	select {
	case k := <-posted:
		if k != KindIdle {
			t.Errorf("Current() = %s, want idle", k)
		}
	case <-time.After(time.Second):
		t.Fatal("posted task never ran")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []Type{TypeActionBegin, TypeSingleTap, TypeActionEnd}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestLoopStopsWhenInputsClose(t *testing.T) {
	loop := NewLoop()
	d := New(DefaultThresholds(), WithScheduler(loop))
	inputs := make(chan Input)
	close(inputs)

	ran := false
	loop.Post(func() { ran = true })
	if err := loop.Run(context.Background(), d, inputs); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if !ran {
		t.Error("queued work was not drained before returning")
	}
}
