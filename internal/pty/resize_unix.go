//go:build !windows

package pty

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// FollowSize resizes the PTY whenever the terminal is resized, until ctx is
// done
func (m *Manager) FollowSize(ctx context.Context, t *Terminal) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGWINCH)
	defer signal.Stop(sigs)

	sigs <- syscall.SIGWINCH // initial size
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigs:
			if size, err := t.Size(); err == nil {
				m.Resize(size.Rows, size.Cols)
			}
		}
	}
}
