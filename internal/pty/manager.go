package pty

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"

	"github.com/pleimann/gesture-pad/internal/action"
)

// ErrNotStarted is returned by writes before Start or after Stop
var ErrNotStarted = errors.New("PTY not started")

// Manager manages a PTY and the TUI process running in it. Gesture key
// presses and the user's own typing are both written to the PTY; the TUI's
// output is mirrored to an optional writer and kept in a ring buffer.
type Manager struct {
	command    string
	args       []string
	workingDir string

	mu     sync.Mutex
	ptmx   *os.File
	cmd    *exec.Cmd
	out    io.Writer
	done   chan struct{}
	result error

	outputMu     sync.RWMutex
	outputBuffer *RingBuffer
}

// RingBuffer keeps the most recent bytes written to it
type RingBuffer struct {
	data  []byte
	size  int
	write int
	full  bool
}

// NewRingBuffer creates a new ring buffer with the given size
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		data: make([]byte, size),
		size: size,
	}
}

// Write writes data to the ring buffer
func (rb *RingBuffer) Write(p []byte) {
	if len(p) >= rb.size {
		copy(rb.data, p[len(p)-rb.size:])
		rb.write, rb.full = 0, true
		return
	}
	for _, b := range p {
		rb.data[rb.write] = b
		rb.write = (rb.write + 1) % rb.size
		if rb.write == 0 {
			rb.full = true
		}
	}
}

// String returns the buffer contents from oldest to newest
func (rb *RingBuffer) String() string {
	if !rb.full {
		return string(rb.data[:rb.write])
	}
	return string(rb.data[rb.write:]) + string(rb.data[:rb.write])
}

// NewManager creates a new PTY manager
func NewManager(command string, args []string, workingDir string) (*Manager, error) {
	if command == "" {
		return nil, fmt.Errorf("command is required")
	}

	return &Manager{
		command:      command,
		args:         args,
		workingDir:   workingDir,
		outputBuffer: NewRingBuffer(4096), // Keep last 4KB of output
	}, nil
}

// SetOutput mirrors the TUI's output to w. Call before Start.
func (m *Manager) SetOutput(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.out = w
}

// Start starts the TUI process in a PTY of the given size. A nil size
// leaves the PTY at its default.
func (m *Manager) Start(ctx context.Context, size *pty.Winsize) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cmd != nil {
		return fmt.Errorf("%s already started", m.command)
	}

	cmd := exec.CommandContext(ctx, m.command, m.args...)
	if m.workingDir != "" {
		cmd.Dir = m.workingDir
	}
	cmd.Env = os.Environ()

	ptmx, err := pty.StartWithSize(cmd, size)
	if err != nil {
		return fmt.Errorf("failed to start PTY: %w", err)
	}

	m.ptmx = ptmx
	m.cmd = cmd
	m.done = make(chan struct{})

	go m.readOutput(ptmx, m.out)

	go func() {
		err := cmd.Wait()
		m.mu.Lock()
		m.result = err
		m.mu.Unlock()
		close(m.done)
	}()

	return nil
}

// Stop stops the TUI process and closes the PTY
func (m *Manager) Stop() {
	m.mu.Lock()
	cmd, done := m.cmd, m.done
	if m.ptmx != nil {
		m.ptmx.Close()
		m.ptmx = nil
	}
	m.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return
	}
	select {
	case <-done:
	default:
		cmd.Process.Signal(os.Interrupt)
		<-done
	}
}

// Done is closed when the TUI process exits
func (m *Manager) Done() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done == nil {
		return nil
	}
	return m.done
}

// Wait blocks until the TUI process exits and returns its exit error
func (m *Manager) Wait() error {
	done := m.Done()
	if done == nil {
		return ErrNotStarted
	}
	<-done
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

// readOutput copies PTY output into the ring buffer and the mirror writer
func (m *Manager) readOutput(ptmx *os.File, out io.Writer) {
	buf := make([]byte, 1024)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			m.outputMu.Lock()
			m.outputBuffer.Write(buf[:n])
			m.outputMu.Unlock()
			if out != nil {
				out.Write(buf[:n])
			}
		}
		if err != nil {
			return
		}
	}
}

// ForwardInput copies r into the PTY until r fails or ctx is done. It is
// how the user keeps typing into the TUI alongside gesture key presses.
func (m *Manager) ForwardInput(ctx context.Context, r io.Reader) error {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if n > 0 {
			if werr := m.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// Write writes raw bytes to the PTY
func (m *Manager) Write(p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ptmx == nil {
		return ErrNotStarted
	}

	_, err := m.ptmx.Write(p)
	return err
}

// WriteKey writes a key press to the PTY
func (m *Manager) WriteKey(key action.KeyPress) error {
	data := key.ToBytes()
	if data == nil {
		return fmt.Errorf("could not convert key %s to bytes", key)
	}
	return m.Write(data)
}

// WriteString writes a string to the PTY
func (m *Manager) WriteString(s string) error {
	return m.Write([]byte(s))
}

// GetRecentOutput returns recent output from the TUI
func (m *Manager) GetRecentOutput() string {
	m.outputMu.RLock()
	defer m.outputMu.RUnlock()
	return m.outputBuffer.String()
}

// Resize resizes the PTY window
func (m *Manager) Resize(rows, cols uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ptmx == nil {
		return ErrNotStarted
	}

	return pty.Setsize(m.ptmx, &pty.Winsize{
		Rows: rows,
		Cols: cols,
	})
}

// IsRunning returns whether the TUI process is running
func (m *Manager) IsRunning() bool {
	done := m.Done()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}
