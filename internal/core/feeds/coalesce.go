package feeds

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// Coalescer optionally collapses concurrent cache-miss loads for the same key into one
// upstream call. A nil *Coalescer runs every load independently.
type Coalescer struct {
	group singleflight.Group
}

// NewCoalescer returns a Coalescer when enabled, nil otherwise.
func NewCoalescer(enabled bool) *Coalescer {
	if !enabled {
		return nil
	}
	return &Coalescer{}
}

// Do runs load for key, sharing the outcome with concurrent callers of the same key.
//
// A shared load runs on a context detached from the caller that started it, so one
// caller going away does not fail the others; load must bound itself with its own
// timeouts. Each caller still stops waiting when its own ctx is done.
func Do[T any](ctx context.Context, c *Coalescer, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return load(shared)
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
