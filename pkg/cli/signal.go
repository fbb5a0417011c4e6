package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// withSignals cancels ctx on SIGINT or SIGTERM.
func withSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
