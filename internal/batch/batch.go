// Package batch provides the two fan-out/fan-in disciplines used by the
// aggregators: All aborts on the first failure, Settle drops failed members.
package batch

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/errgroup"

	"github.com/justchokingaround/marquee/internal/metrics"
)

// Task is one member of an all-or-nothing batch
type Task func(ctx context.Context) error

// AggregationError reports that a member of an all-or-nothing batch failed
type AggregationError struct {
	Batch string
	Err   error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("%s batch failed: %v", e.Batch, e.Err)
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}

// All runs every task concurrently and waits for all of them. The first
// failure cancels the context shared by the remaining tasks and is returned
// wrapped in an AggregationError.
func All(ctx context.Context, name string, tasks ...Task) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error {
			return task(gctx)
		})
	}

	err := g.Wait()
	metrics.ObserveBatch(name, err)
	if err != nil {
		return &AggregationError{Batch: name, Err: err}
	}
	return nil
}

// Map runs fn for every index in [0, n) with All semantics and returns the
// results in index order.
func Map[T any](ctx context.Context, name string, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	out := make([]T, n)
	tasks := make([]Task, n)
	for i := range n {
		tasks[i] = func(ctx context.Context) error {
			v, err := fn(ctx, i)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		}
	}

	if err := All(ctx, name, tasks...); err != nil {
		return nil, err
	}
	return out, nil
}

// Settle runs every fn concurrently and returns the values of the members
// that succeeded, in completion order. Failed members are dropped; their
// errors are joined into the second return value for logging only.
func Settle[T any](ctx context.Context, name string, fns ...func(ctx context.Context) (T, error)) ([]T, error) {
	p := pool.NewWithResults[T]().WithContext(ctx)
	for _, fn := range fns {
		p.Go(fn)
	}

	values, err := p.Wait()
	metrics.ObserveBatch(name, nil)
	return values, err
}
