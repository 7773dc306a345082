// Package fanout runs one unit of work per item concurrently and collects
// the results in completion order.
package fanout

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ErrPanic wraps a panic raised by a work function.
var ErrPanic = errors.New("work item panicked")

// Result is the outcome of one work item.
type Result[T, R any] struct {
	// Item is the input the work function was called with.
	Item T
	// Index is the item's position in the input slice.
	Index int
	// Value is the work function's return value. Zero when Err is set by a panic.
	Value R
	// Err is the work function's error, or ErrPanic.
	Err error
}

// Func does the work for one item.
type Func[T, R any] func(ctx context.Context, item T) (R, error)

// DoneFunc observes each result as it arrives. completed counts results
// received so far, including this one. It runs on the caller's goroutine,
// so it needs no locking.
type DoneFunc[T, R any] func(res Result[T, R], completed int)

// Map calls fn once per item, all at once, on a pool sized to len(items).
// It returns exactly one Result per item, ordered by completion, and only
// after every call has returned. A failing or panicking item never affects
// the others. Map has no deadline of its own; fn is expected to honor ctx
// or enforce its own timeout.
func Map[T, R any](ctx context.Context, items []T, fn Func[T, R], onDone DoneFunc[T, R]) []Result[T, R] {
	if len(items) == 0 {
		return nil
	}

	results := make(chan Result[T, R], len(items))

	var g errgroup.Group
	g.SetLimit(len(items))

	for i, item := range items {
		g.Go(func() error {
			results <- run(ctx, i, item, fn)
			return nil // best effort: one item never fails the group
		})
	}

	out := make([]Result[T, R], 0, len(items))
	for range items {
		res := <-results
		out = append(out, res)
		if onDone != nil {
			onDone(res, len(out))
		}
	}

	_ = g.Wait()
	return out
}

func run[T, R any](ctx context.Context, index int, item T, fn Func[T, R]) (res Result[T, R]) {
	res.Item = item
	res.Index = index

	defer func() {
		if r := recover(); r != nil {
			var zero R
			res.Value = zero
			res.Err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	res.Value, res.Err = fn(ctx, item)
	return res
}
