package pty

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	creackpty "github.com/creack/pty"

	"github.com/pleimann/gesture-pad/internal/action"
)

func TestNewRingBuffer(t *testing.T) {
	rb := NewRingBuffer(10)
	if rb.size != 10 {
		t.Errorf("size = %d, want 10", rb.size)
	}
	if len(rb.data) != 10 {
		t.Errorf("len(data) = %d, want 10", len(rb.data))
	}
}

func TestRingBufferWrite(t *testing.T) {
	rb := NewRingBuffer(5)

	rb.Write([]byte("abc"))
	result := rb.String()

	if result != "abc" {
		t.Errorf("String() = %q, want %q", result, "abc")
	}
}

func TestRingBufferOverwrite(t *testing.T) {
	rb := NewRingBuffer(5)

	// Write more than buffer size
	rb.Write([]byte("hello world"))

	// Should contain last 5 characters
	result := rb.String()
	if result != "world" {
		t.Errorf("String() = %q, want %q", result, "world")
	}
}

func TestRingBufferEmpty(t *testing.T) {
	rb := NewRingBuffer(5)
	result := rb.String()

	if result != "" {
		t.Errorf("String() on empty buffer = %q, want empty", result)
	}
}

func TestRingBufferExactFit(t *testing.T) {
	rb := NewRingBuffer(5)
	rb.Write([]byte("12345"))

	result := rb.String()
	if result != "12345" {
		t.Errorf("String() = %q, want %q", result, "12345")
	}
}

func TestRingBufferMultipleWrites(t *testing.T) {
	rb := NewRingBuffer(10)

	rb.Write([]byte("hello"))
	rb.Write([]byte(" "))
	rb.Write([]byte("world"))

	result := rb.String()
	// 11 chars written to 10-byte buffer, keeps last 10: "ello world"
	if result != "ello world" {
		t.Errorf("String() = %q, want %q", result, "ello world")
	}
}

func TestNewManagerValidation(t *testing.T) {
	// Empty command should fail
	_, err := NewManager("", nil, "")
	if err == nil {
		t.Error("NewManager() with empty command should return error")
	}

	// Valid command should succeed
	m, err := NewManager("echo", []string{"test"}, "")
	if err != nil {
		t.Errorf("NewManager() error = %v", err)
	}
	if m == nil {
		t.Error("NewManager() returned nil")
	}
}

func TestManagerIsRunningBeforeStart(t *testing.T) {
	m, _ := NewManager("echo", []string{"test"}, "")

	if m.IsRunning() {
		t.Error("IsRunning() = true before Start(), want false")
	}
}

func TestManagerGetRecentOutputEmpty(t *testing.T) {
	m, _ := NewManager("echo", []string{"test"}, "")

	output := m.GetRecentOutput()
	if output != "" {
		t.Errorf("GetRecentOutput() = %q, want empty", output)
	}
}

func TestManagerWriteBeforeStart(t *testing.T) {
	m, _ := NewManager("cat", nil, "")

	if err := m.WriteKey(action.KeyPress{Key: "a"}); !errors.Is(err, ErrNotStarted) {
		t.Errorf("WriteKey() error = %v, want ErrNotStarted", err)
	}
	if err := m.Resize(24, 80); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Resize() error = %v, want ErrNotStarted", err)
	}
	if err := m.Wait(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Wait() error = %v, want ErrNotStarted", err)
	}
}

func TestManagerRunsCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no PTY support")
	}

	m, err := NewManager("echo", []string{"hello from pty"}, "")
	if err != nil {
		t.Fatal(err)
	}
	var mirror syncBuffer
	m.SetOutput(&mirror)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.Start(ctx, &creackpty.Winsize{Rows: 24, Cols: 80}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := m.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if m.IsRunning() {
		t.Error("IsRunning() = true after exit")
	}

	// Output is read concurrently with the exit
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(m.GetRecentOutput(), "hello from pty") {
		if time.Now().After(deadline) {
			t.Fatalf("GetRecentOutput() = %q", m.GetRecentOutput())
		}
		time.Sleep(10 * time.Millisecond)
	}
	m.Stop()
}

func TestForwardInput(t *testing.T) {
	m, _ := NewManager("cat", nil, "")
	err := m.ForwardInput(context.Background(), strings.NewReader("x"))
	if !errors.Is(err, ErrNotStarted) {
		t.Errorf("ForwardInput() before Start error = %v, want ErrNotStarted", err)
	}

	if err := m.ForwardInput(context.Background(), strings.NewReader("")); err != nil {
		t.Errorf("ForwardInput() of empty input error = %v", err)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}
