package loop_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openadmit/openadmit/pkg/loop"
	"github.com/openadmit/openadmit/pkg/utils/try"
)

func TestStart(t *testing.T) {
	t.Run("it repeats the task until Break", func(t *testing.T) {
		ctx := context.Background()

		expected := 10
		actual, err := loop.Start(ctx, 1, func(ctx context.Context, v int) (int, loop.Next) {
			next := v + 1
			if expected <= next {
				return next, loop.Break(nil)
			}
			return next, loop.Continue(0)
		})

		if err != nil {
			t.Fatal(err)
		}
		if actual != expected {
			t.Errorf("repeats too much/less. (actual, expected) = (%d, %d)", actual, expected)
		}
	})

	t.Run("it returns the error of Break together with the last value", func(t *testing.T) {
		ctx := context.Background()
		expectedErr := errors.New("break!")

		expected := 4
		actual, err := loop.Start(ctx, 1, func(ctx context.Context, v int) (int, loop.Next) {
			next := v + 1
			if expected <= next {
				return next, loop.Break(expectedErr)
			}
			return next, loop.Continue(0)
		})

		if !errors.Is(err, expectedErr) {
			t.Errorf("error is unexpected one. (actual, expected) = (%v, %v)", err, expectedErr)
		}
		if actual != expected {
			t.Errorf("repeats too much/less. (actual, expected) = (%d, %d)", actual, expected)
		}
	})

	t.Run("when the context has been done before starting, it does nothing", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		actual, err := loop.Start(ctx, 1, func(ctx context.Context, v int) (int, loop.Next) {
			return v + 1, loop.Continue(0)
		})

		if !errors.Is(err, context.Canceled) {
			t.Fatal(err)
		}
		if actual != 1 {
			t.Errorf("loop does not honour context")
		}
	})

	t.Run("it stops at the interval when the context gets done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		cycles := 0
		_, err := loop.Start(ctx, 0, func(ctx context.Context, v int) (int, loop.Next) {
			cycles += 1
			if 3 <= cycles {
				cancel()
			}
			return v + 1, loop.Continue(time.Hour)
		})

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected error (Canceled) is not returned: %v", err)
		}
		if cycles != 3 {
			t.Errorf("the loop should stop while sleeping: cycles = %d", cycles)
		}
	})

	t.Run("it passes a deadlined context when WithTimeout is passed", func(t *testing.T) {
		ctx := context.Background()
		timeout := 100 * time.Millisecond

		try.To(loop.Start(
			ctx, 1, func(ctx context.Context, v int) (int, loop.Next) {
				now := time.Now()
				if deadline, ok := ctx.Deadline(); !ok {
					t.Errorf("deadline is not set")
				} else if !(deadline.Sub(now) <= timeout) {
					t.Errorf(
						"unexpected deadline: (actual, expected) = (%s, near %s)",
						deadline, now.Add(timeout),
					)
				}

				if 3 <= v {
					return v + 1, loop.Break(nil)
				}
				return v + 1, loop.Continue(0)
			},
			loop.WithTimeout(timeout),
		)).OrFatal(t)
	})

	t.Run("it passes a deadline-free context when WithTimeout is not passed", func(t *testing.T) {
		ctx := context.Background()

		try.To(loop.Start(
			ctx, 1, func(ctx context.Context, v int) (int, loop.Next) {
				if deadline, ok := ctx.Deadline(); ok {
					t.Errorf("deadline is set: %s (now = %s)", deadline, time.Now())
				}

				if 3 <= v {
					return v + 1, loop.Break(nil)
				}
				return v + 1, loop.Continue(0)
			},
		)).OrFatal(t)
	})
}
