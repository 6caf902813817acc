// Package parallel runs a bounded number of tasks concurrently and joins them
// all before reporting the first failure.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// ErrPanic wraps a panic recovered from a task.
var ErrPanic = errors.New("task panicked")

// Task is one unit of work. ctx is cancelled once any sibling task fails or
// the parent context ends.
type Task func(ctx context.Context) error

type Group struct {
	group *errgroup.Group
	ctx   context.Context
}

// Start returns a group that runs at most numWorkers tasks at a time. A
// non-positive numWorkers means one per logical CPU.
func Start(ctx context.Context, numWorkers int) *Group {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)

	return &Group{
		group: g,
		ctx:   gctx,
	}
}

// Do schedules f, blocking while numWorkers tasks are already running. Tasks
// scheduled after a failure are skipped.
func (p *Group) Do(f Task) {
	p.group.Go(func() (err error) {
		if err := p.ctx.Err(); err != nil {
			return err
		}

		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v\n%s", ErrPanic, r, debug.Stack())
			}
		}()

		return f(p.ctx)
	})
}

// Wait blocks until every scheduled task has returned and reports the first
// error, if any.
func (p *Group) Wait() error {
	return p.group.Wait()
}
