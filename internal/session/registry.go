package session

import (
	"sync"
	"time"

	"github.com/example/ballethq/internal/router"
	"github.com/example/ballethq/pkg/monitoring"
)

// Registry keeps the router state of every interactive session of one surface.
// Calls for the same id run one at a time; different ids never share state.
type Registry struct {
	surface string
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

type entry struct {
	mu       sync.Mutex
	state    router.State
	lastSeen time.Time
	active   int // Do calls holding or waiting for mu, guarded by Registry.mu
}

// NewRegistry creates an empty registry. surface labels the session metrics ("web", "telegram").
func NewRegistry(surface string) *Registry {
	return &Registry{
		surface: surface,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Do runs fn on the state of session id, creating a landing state on first access.
// Whatever fn leaves in *state is kept, even when it returns an error.
func (r *Registry) Do(id string, fn func(state *router.State) error) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		e = &entry{state: router.State{View: router.Landing}}
		r.entries[id] = e
		monitoring.ActiveSessions.WithLabelValues(r.surface).Set(float64(len(r.entries)))
	}
	e.lastSeen = r.now()
	e.active++
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		e.active--
		e.lastSeen = r.now()
		r.mu.Unlock()
	}()

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.state)
}

// Delete forgets a session
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	monitoring.ActiveSessions.WithLabelValues(r.surface).Set(float64(len(r.entries)))
	r.mu.Unlock()
}

// Len returns the number of sessions held
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// PruneIdle drops sessions not used for longer than maxIdle and returns how many went away.
// A session with a Do call in progress is never dropped.
func (r *Registry) PruneIdle(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	pruned := 0
	for id, e := range r.entries {
		if e.active == 0 && e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			pruned++
		}
	}
	monitoring.ActiveSessions.WithLabelValues(r.surface).Set(float64(len(r.entries)))
	return pruned
}
