package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/ballethq/internal/router"
	"github.com/stretchr/testify/require"
)

func TestDoCreatesLandingState(t *testing.T) {
	reg := NewRegistry("test")

	var seen router.View
	err := reg.Do("a", func(state *router.State) error {
		seen = state.View
		state.View = router.PlaceholderView("Flash Cards")
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, router.Landing, seen)

	require.NoError(t, reg.Do("a", func(state *router.State) error {
		seen = state.View
		return nil
	}))
	require.Equal(t, router.PlaceholderView("Flash Cards"), seen)

	require.NoError(t, reg.Do("b", func(state *router.State) error {
		seen = state.View
		return nil
	}))
	require.Equal(t, router.Landing, seen, "sessions are isolated")
	require.Equal(t, 2, reg.Len())
}

func TestDoReturnsCallbackError(t *testing.T) {
	reg := NewRegistry("test")
	boom := errors.New("boom")

	err := reg.Do("a", func(*router.State) error { return boom })
	require.ErrorIs(t, err, boom)
}

func TestPruneIdle(t *testing.T) {
	reg := NewRegistry("test")
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	noop := func(*router.State) error { return nil }
	require.NoError(t, reg.Do("old", noop))

	now = now.Add(90 * time.Minute)
	require.NoError(t, reg.Do("fresh", noop))

	now = now.Add(45 * time.Minute)
	require.Equal(t, 1, reg.PruneIdle(time.Hour))
	require.Equal(t, 1, reg.Len())

	reg.Delete("fresh")
	require.Zero(t, reg.Len())
}

func TestPruneIdleKeepsSessionsInUse(t *testing.T) {
	reg := NewRegistry("test")
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- reg.Do("busy", func(state *router.State) error {
			close(entered)
			<-release
			state.View = router.QuizView("Grade 1")
			return nil
		})
	}()
	<-entered

	now = now.Add(3 * time.Hour)
	require.Zero(t, reg.PruneIdle(time.Hour))
	require.Equal(t, 1, reg.Len())

	close(release)
	require.NoError(t, <-done)

	// finishing the call counts as activity
	require.Zero(t, reg.PruneIdle(time.Hour))
	var view router.View
	require.NoError(t, reg.Do("busy", func(state *router.State) error {
		view = state.View
		return nil
	}))
	require.Equal(t, router.QuizView("Grade 1"), view)
}

func TestDoSerializesOneSession(t *testing.T) {
	reg := NewRegistry("test")
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.Do("same", func(*router.State) error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	require.Equal(t, 50, counter)
}
