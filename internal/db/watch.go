package db

import (
	"context"
	"encoding/json"

	"carpool-backend-go/internal/store"
)

// watchEntity adapts a raw store subscription into a typed snapshot stream.
// Absent values arrive as nil. The stream has capacity one and a stale,
// unconsumed snapshot is replaced rather than queued, so a slow consumer sees
// the latest state and the decode goroutine never blocks. The returned stop
// function closes the underlying subscription; callers must invoke it on
// every exit path.
func watchEntity[T any](ctx context.Context, s store.Store, path string, attach func(*T)) (<-chan *T, func(), error) {
	sub, err := s.Watch(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan *T, 1)
	go func() {
		defer close(out)
		for ev := range sub.Events() {
			var next *T
			if ev.Exists {
				next = new(T)
				if err := json.Unmarshal(ev.Value, next); err != nil {
					continue
				}
				if attach != nil {
					attach(next)
				}
			}
			select {
			case <-out:
			default:
			}
			out <- next
		}
	}()
	return out, sub.Close, nil
}
