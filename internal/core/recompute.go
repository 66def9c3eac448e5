package core

import "context"

// RecomputeHandle reports the outcome of one asynchronous route recompute.
// The engine fires recomputes without making callers wait; callers that care
// block on Done or Wait, callers that don't simply drop the handle and
// observe the route via subscription, matching the original fire-and-forget
// behavior.
type RecomputeHandle struct {
	done chan struct{}
	err  error
}

func newRecomputeHandle() *RecomputeHandle {
	return &RecomputeHandle{done: make(chan struct{})}
}

// Done is closed when the recompute has finished, successfully or not.
func (h *RecomputeHandle) Done() <-chan struct{} { return h.done }

// Err returns the recompute outcome. Valid once Done is closed; before that
// it returns nil.
func (h *RecomputeHandle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Wait blocks until the recompute finishes or ctx is canceled.
func (h *RecomputeHandle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// complete records the outcome exactly once.
func (h *RecomputeHandle) complete(err error) {
	h.err = err
	close(h.done)
}
