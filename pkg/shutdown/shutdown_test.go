package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunKeepsGoingAfterFailure(t *testing.T) {
	var ran []string
	boom := errors.New("boom")

	err := Run(time.Second, logger.Discard(),
		Step{Name: "http", Fn: func(ctx context.Context) error { ran = append(ran, "http"); return boom }},
		Step{Name: "db", Fn: func(ctx context.Context) error { ran = append(ran, "db"); return nil }},
	)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"http", "db"}, ran)
}

func TestRunSharesDeadline(t *testing.T) {
	err := Run(10*time.Millisecond, nil, Step{Name: "slow", Fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithSignalsCancelsWithParent(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := WithSignals(parent)
	defer cancel()

	cancelParent()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled")
	}
}
