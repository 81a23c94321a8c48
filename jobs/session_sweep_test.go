package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSweeper struct {
	removed int64
	err     error
	calls   int
}

func (s *stubSweeper) SweepExpired(context.Context) (int64, error) {
	s.calls++
	return s.removed, s.err
}

func TestSessionSweepJobRemovesExpired(t *testing.T) {
	sweeper := &stubSweeper{removed: 3}
	job := NewSessionSweepJob(sweeper, slog.Default(), nil)

	err := job.Handle(context.Background(), NewSessionSweepTask())
	require.NoError(t, err)
	assert.Equal(t, 1, sweeper.calls)
}

func TestSessionSweepJobPropagatesErrors(t *testing.T) {
	sweeper := &stubSweeper{err: errors.New("db down")}
	job := NewSessionSweepJob(sweeper, slog.Default(), nil)

	err := job.Handle(context.Background(), NewSessionSweepTask())
	require.Error(t, err)
}

func TestSessionSweepJobUnconfigured(t *testing.T) {
	var job *SessionSweepJob
	require.Error(t, job.Handle(context.Background(), NewSessionSweepTask()))
}
