package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(ch)
		select {
		case <-ctx.Done():
			return
		case <-ch:
			cancel()
		}
	}()

	return ctx, cancel
}

// Step is one named piece of teardown.
type Step struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Run executes steps in order under one shared deadline. Every step runs even
// if an earlier one failed; the failures are joined.
func Run(timeout time.Duration, log *slog.Logger, steps ...Step) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for _, s := range steps {
		if err := s.Fn(ctx); err != nil {
			if log != nil {
				log.Error("shutdown step failed", slog.String("step", s.Name), slog.Any("err", err))
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
