package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
)

// ErrNotFound is returned by Get when the path holds no value. Callers must
// never receive a synthetic default in its place.
var ErrNotFound = errors.New("no value at path")

// Store is the reactive store capability the rest of the application is built
// on: path-addressed reads and last-write-wins writes over a single JSON tree,
// push-appends with generated keys, and live subscriptions.
//
// Writes are path-scoped and non-transactional. Two paths written "together"
// (for example a ride's driver and carId) are two independent writes, and
// other subscribers may observe them in either order or catch the
// intermediate state. The engine is written around this.
type Store interface {
	// Get reads the value at path into dest. Returns ErrNotFound when the
	// path is empty.
	Get(ctx context.Context, path string, dest interface{}) error

	// Set overwrites the value at path. Setting nil deletes the subtree.
	Set(ctx context.Context, path string, value interface{}) error

	// Delete removes the subtree at path. Deleting an absent path is a no-op.
	Delete(ctx context.Context, path string) error

	// Push appends value under path with a generated, chronologically
	// ordered key and returns that key.
	Push(ctx context.Context, path string, value interface{}) (string, error)

	// Watch returns a live feed of the value at path. The first event is the
	// current value (or absence). Delivery stops when the subscription is
	// closed or ctx is canceled; closing never touches stored data.
	Watch(ctx context.Context, path string) (*Subscription, error)
}

// Event is one observation of a watched path. Value is nil and Exists false
// when the path holds nothing.
type Event struct {
	Path   string
	Value  json.RawMessage
	Exists bool
}

// Subscription is a single subscriber's feed. Each Watch call gets an
// independent Subscription; Close is idempotent and releases only this
// subscriber. Intermediate snapshots may be coalesced under load, but the
// latest state is always delivered.
type Subscription struct {
	events chan Event
	stop   func()
	once   sync.Once
}

func newSubscription(stop func()) *Subscription {
	return &Subscription{events: make(chan Event, 1), stop: stop}
}

// Events returns the event channel. It is closed after Close or context
// cancellation, once any final in-flight event has been delivered.
func (s *Subscription) Events() <-chan Event { return s.events }

// Close stops delivery. Safe to call multiple times and from any goroutine.
func (s *Subscription) Close() {
	s.once.Do(s.stop)
}

// splitPath breaks a slash-separated path into non-empty segments.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}

// pathsOverlap reports whether a write at wrote changes the value observed at
// watched: true when either path is an ancestor of (or equal to) the other.
func pathsOverlap(watched, wrote []string) bool {
	n := len(watched)
	if len(wrote) < n {
		n = len(wrote)
	}
	for i := 0; i < n; i++ {
		if watched[i] != wrote[i] {
			return false
		}
	}
	return true
}
