//go:build windows

package pty

import "context"

// FollowSize is a no-op: Windows has no SIGWINCH
func (m *Manager) FollowSize(ctx context.Context, t *Terminal) {
	<-ctx.Done()
}
