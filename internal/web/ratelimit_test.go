package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterPerClient(t *testing.T) {
	l := NewRateLimiter(1, time.Hour)

	require.True(t, l.Allow("10.0.0.1"))
	require.False(t, l.Allow("10.0.0.1"))
	require.True(t, l.Allow("10.0.0.2"))
}

func TestRateLimiterPruneIdle(t *testing.T) {
	l := NewRateLimiter(5, time.Minute)
	l.Allow("10.0.0.1")
	l.visitors["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)
	l.Allow("10.0.0.2")

	require.Equal(t, 1, l.PruneIdle(10*time.Minute))
	require.Len(t, l.visitors, 1)
}
