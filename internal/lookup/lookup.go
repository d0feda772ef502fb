// Package lookup guards asynchronous lookups against out-of-order completion.
//
// Every time the user changes a selection a new Ticket is taken for that field. When the
// lookup completes its result is applied only if the ticket is still the newest one, so a
// slow response for an earlier selection never overwrites a later one.
package lookup

import (
	"context"
	"sync"
	"time"
)

// Ticket identifies one lookup for a key.
type Ticket struct {
	Key        string
	Generation uint64
}

// Tracker hands out tickets. The zero value is ready to use and safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	current map[string]uint64
}

// Begin starts a new lookup for key, superseding any still running.
func (t *Tracker) Begin(key string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		t.current = make(map[string]uint64)
	}

	t.current[key]++

	return Ticket{Key: key, Generation: t.current[key]}
}

// Current reports whether tk is still the newest lookup for its key.
func (t *Tracker) Current(tk Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return tk.Generation != 0 && t.current[tk.Key] == tk.Generation
}

// Invalidate supersedes every outstanding lookup for key without starting a new one.
func (t *Tracker) Invalidate(key string) {
	t.Begin(key)
}

// Run performs fn under timeout and returns its result together with whether it is still
// current once fn returns.
func Run[T any](ctx context.Context, t *Tracker, tk Ticket, timeout time.Duration, fn func(context.Context) (T, error)) (T, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	v, err := fn(ctx)

	return v, t.Current(tk), err
}
