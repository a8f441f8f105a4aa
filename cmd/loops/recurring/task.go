package recurring

import (
	"context"

	"github.com/openadmit/openadmit/pkg/loop"
)

// Task is one cycle of a recurring loop.
//
// The bool tells whether the cycle did something, so there may be more
// backlog to drain.
type Task[T any] func(context.Context, T) (T, bool, error)

// a loop.Task which executes rt and asks p for what to do next.
func (rt Task[T]) Applied(p Policy) loop.Task[T] {
	return func(ctx context.Context, t T) (T, loop.Next) {
		new, ok, err := rt(ctx, t)
		return new, p.Next(ok, err)
	}
}
