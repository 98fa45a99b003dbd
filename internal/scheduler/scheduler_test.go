package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/forecast-history/internal/forecast"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
	block chan struct{}
}

func (r *countingRefresher) Refresh(ctx context.Context) (*forecast.Result, error) {
	r.calls.Add(1)
	if r.block != nil {
		<-r.block
	}
	if r.err != nil {
		return nil, r.err
	}
	return forecast.Aggregate(nil, forecast.Options{}), nil
}

func TestRunOncePublishesResult(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, "06:00", time.Second)
	assert.Nil(t, s.Latest())

	s.RunOnce()
	require.NotNil(t, s.Latest())
	assert.EqualValues(t, 1, r.calls.Load())
}

func TestRunOnceKeepsPreviousResultOnError(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, "06:00", time.Second)
	s.RunOnce()
	first := s.Latest()

	r.err = errors.New("provider down")
	s.RunOnce()
	assert.Same(t, first, s.Latest())
}

func TestRunOnceSkipsOverlappingRuns(t *testing.T) {
	r := &countingRefresher{block: make(chan struct{})}
	s := New(r, "06:00", time.Second)

	done := make(chan struct{})
	go func() {
		s.RunOnce()
		close(done)
	}()
	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	s.RunOnce()
	assert.EqualValues(t, 1, r.calls.Load())

	close(r.block)
	<-done
	assert.NotNil(t, s.Latest())
}

func TestStartRunsImmediately(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, "06:00", time.Second)
	require.NoError(t, s.Start())
	t.Cleanup(s.Stop)

	assert.Eventually(t, func() bool { return s.Latest() != nil }, 2*time.Second, 10*time.Millisecond)
}

func TestStartRejectsBadTime(t *testing.T) {
	s := New(&countingRefresher{}, "noon", time.Second)
	assert.Error(t, s.Start())
}
