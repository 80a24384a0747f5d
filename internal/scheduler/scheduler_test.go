package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingPruner struct {
	calls   atomic.Int32
	maxIdle atomic.Int64
}

func (p *countingPruner) PruneIdle(maxIdle time.Duration) int {
	p.calls.Add(1)
	p.maxIdle.Store(int64(maxIdle))
	return 3
}

func TestRunOnce(t *testing.T) {
	s := New(time.Minute, 2*time.Hour)
	web := &countingPruner{}
	limiter := &countingPruner{}
	s.Register("web", web)
	s.Register("limiter", limiter)

	removed := s.RunOnce()

	require.Equal(t, map[string]int{"web": 3, "limiter": 3}, removed)
	require.Equal(t, int32(1), web.calls.Load())
	require.Equal(t, int64(2*time.Hour), web.maxIdle.Load())
}

func TestStartRunsJob(t *testing.T) {
	s := New(time.Second, time.Hour)
	p := &countingPruner{}
	s.Register("web", p)

	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool { return p.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
