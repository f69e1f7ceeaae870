package commands

import (
	"context"
	"os"
	"os/signal"
)

func cmdContext() context.Context {
	return context.Background()
}

// signalContext is cancelled on interrupt, for long running commands.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
