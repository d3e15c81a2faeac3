// Package signal ties playback cancellation to process signals.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// NotifyContext derives a context from parent that is cancelled on SIGINT or
// SIGTERM. Call stop to release the signal handlers.
func NotifyContext(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
