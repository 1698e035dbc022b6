// Package batch splits work into fixed-size chunks and runs the chunks one
// after another. Items inside a chunk run sequentially unless Workers allows
// more than one at a time.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultSize is the number of sheets handled per batch.
const DefaultSize = 2

type Options struct {
	// Size is the number of items per batch. Values below 1 mean 1.
	Size int
	// Workers is the number of items of one batch that may run at once.
	// Values below 2 process items strictly one after another.
	Workers int
}

// Split partitions items into consecutive chunks of size, keeping order.
// The last chunk may be shorter.
func Split[T any](items []T, size int) [][]T {
	if size < 1 {
		size = 1
	}
	batches := make([][]T, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		end := min(i+size, len(items))
		batches = append(batches, items[i:end])
	}
	return batches
}

// Run calls fn for every item, batch by batch. It stops at the first error and
// returns the results of the items that completed before it, in input order.
func Run[T, R any](ctx context.Context, items []T, opts Options, fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, 0, len(items))
	for _, b := range Split(items, opts.Size) {
		var (
			out []R
			err error
		)
		if opts.Workers > 1 {
			out, err = runConcurrent(ctx, b, opts.Workers, fn)
		} else {
			out, err = runSequential(ctx, b, fn)
		}
		results = append(results, out...)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func runSequential[T, R any](ctx context.Context, b []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, 0, len(b))
	for _, item := range b {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		r, err := fn(ctx, item)
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, nil
}

func runConcurrent[T, R any](ctx context.Context, b []T, workers int, fn func(context.Context, T) (R, error)) ([]R, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	res := make([]R, len(b))
	ok := make([]bool, len(b))
	for i, item := range b {
		g.Go(func() error {
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			res[i] = r
			ok[i] = true
			return nil
		})
	}
	err := g.Wait()

	out := make([]R, 0, len(b))
	for i := range b {
		if ok[i] {
			out = append(out, res[i])
		}
	}
	return out, err
}
