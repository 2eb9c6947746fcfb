package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(timeout time.Duration) *Scheduler {
	return New(timeout, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegisterAndRunNow(t *testing.T) {
	s := newTestScheduler(time.Second)
	calls := 0
	require.NoError(t, s.Register("tips_morning", func(context.Context) error {
		calls++
		return nil
	}, "0 8 * * *"))
	require.NoError(t, s.Register("challenge_gaps", func(context.Context) error {
		return errors.New("query failed")
	}, "0 12 * * *", "0 18 * * *"))

	assert.Equal(t, []string{"challenge_gaps", "tips_morning"}, s.Jobs())

	require.NoError(t, s.RunNow(context.Background(), "tips_morning"))
	assert.Equal(t, 1, calls)

	assert.EqualError(t, s.RunNow(context.Background(), "challenge_gaps"), "query failed")
	assert.ErrorIs(t, s.RunNow(context.Background(), "nope"), ErrUnknownJob)
}

func TestRegister_Rejects(t *testing.T) {
	s := newTestScheduler(0)
	noop := func(context.Context) error { return nil }

	assert.Error(t, s.Register("a", noop))
	assert.Error(t, s.Register("b", noop, "not a cron spec"))
	require.NoError(t, s.Register("c", noop, "@every 5m"))
	assert.Error(t, s.Register("c", noop, "@every 5m"))
}

func TestRunNow_AppliesTimeout(t *testing.T) {
	s := newTestScheduler(20 * time.Millisecond)
	require.NoError(t, s.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, "@every 5m"))

	err := s.RunNow(context.Background(), "slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunNow_SkipsWhileJobIsRunning(t *testing.T) {
	s := newTestScheduler(time.Second)
	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, s.Register("task_reminders", func(context.Context) error {
		close(started)
		<-release
		return nil
	}, "@every 5m"))

	done := make(chan error, 1)
	go func() { done <- s.RunNow(context.Background(), "task_reminders") }()
	<-started

	assert.ErrorIs(t, s.RunNow(context.Background(), "task_reminders"), ErrJobRunning)

	close(release)
	require.NoError(t, <-done)
}

func TestRunNow_IgnoresCallerCancellation(t *testing.T) {
	s := newTestScheduler(time.Second)
	var jobErr error
	require.NoError(t, s.Register("task_reminders", func(ctx context.Context) error {
		jobErr = ctx.Err()
		return nil
	}, "@every 5m"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, s.RunNow(ctx, "task_reminders"))
	assert.NoError(t, jobErr)
}
