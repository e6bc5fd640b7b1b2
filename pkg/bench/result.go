package bench

import (
	"context"
	"errors"

	"github.com/AndreyAkinshin/stagebench/internal/runner"
)

// Func is a test. It runs once per execution and reports how it ended through
// the returned Result.
type Func func(ctx context.Context) Result

// Result is the outcome of one test invocation: completed, failed, or deferred
// to a Future.
type Result struct {
	err    error
	future *Future
}

var errFailed = errors.New("test failed")

// Done reports a synchronous test that completed.
func Done() Result {
	return Result{}
}

// Fail reports a synchronous test that failed with err.
func Fail(err error) Result {
	if err == nil {
		err = errFailed
	}
	return Result{err: err}
}

// Await reports a test whose outcome is decided by f. The test is classified as
// async and its elapsed time includes the wait. A nil future resolves at once.
func Await(f *Future) Result {
	if f == nil {
		f = resolved()
	}
	return Result{future: f}
}

// Err returns the failure of a synchronous result.
func (r Result) Err() error {
	return r.err
}

// Deferred reports whether the result is bound to a Future.
func (r Result) Deferred() bool {
	return r.future != nil
}

// Future is the eventual outcome of work running in its own goroutine.
type Future struct {
	done chan struct{}
	err  error
}

// Go runs fn in a new goroutine and returns its future. A panic in fn rejects
// the future.
func Go(fn func() error) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		_, f.err = runner.Protect(func() (struct{}, error) {
			return struct{}{}, fn()
		})
	}()
	return f
}

func resolved() *Future {
	f := &Future{done: make(chan struct{})}
	close(f.done)
	return f
}

// Wait blocks until the future settles and returns its rejection, if any.
func (f *Future) Wait() error {
	<-f.done
	return f.err
}

// Done is closed once the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Sync adapts a plain function to a synchronous test.
func Sync(fn func() error) Func {
	return func(context.Context) Result {
		if err := fn(); err != nil {
			return Fail(err)
		}
		return Done()
	}
}

// Async adapts a plain function to an async test running in its own goroutine.
func Async(fn func() error) Func {
	return func(context.Context) Result {
		return Await(Go(fn))
	}
}
