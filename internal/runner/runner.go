// Package runner provides the concurrent join shared by every lifecycle stage.
package runner

import (
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of concurrent work.
type Task[T any] func() (T, error)

type outcome[T any] struct {
	index int
	value T
	err   error
}

// Join is a set of tasks running concurrently, each in its own goroutine.
type Join[T any] struct {
	g        errgroup.Group
	total    int
	outcomes chan outcome[T]
	settled  chan struct{}
}

// Start launches every task without any concurrency limit.
func Start[T any](tasks []Task[T]) *Join[T] {
	j := &Join[T]{
		total:    len(tasks),
		outcomes: make(chan outcome[T], len(tasks)),
		settled:  make(chan struct{}),
	}

	// No errgroup.WithContext: nothing is ever cancelled.
	for i, task := range tasks {
		j.g.Go(func() error {
			v, err := Protect(task)
			j.outcomes <- outcome[T]{index: i, value: v, err: err}
			return err
		})
	}
	go func() {
		_ = j.g.Wait()
		close(j.settled)
	}()
	return j
}

// Wait returns the results in task order once every task has succeeded, or the
// first error as soon as a task fails. A failure stops the waiting, not the
// tasks: the others keep running and their results are dropped.
// Wait must be called at most once.
func (j *Join[T]) Wait() ([]T, error) {
	results := make([]T, j.total)
	for range j.total {
		o := <-j.outcomes
		if o.err != nil {
			return nil, o.err
		}
		results[o.index] = o.value
	}
	return results, nil
}

// Settled is closed once every task has returned.
func (j *Join[T]) Settled() <-chan struct{} {
	return j.settled
}

// All starts every task and waits for all of them to succeed or for the first
// one to fail. A panicking task counts as a failed task. Tasks still running
// after a failure are not cancelled.
func All[T any](tasks []Task[T]) ([]T, error) {
	return Start(tasks).Wait()
}

// PanicError is returned in place of a panic raised by a task.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Protect calls fn and converts a panic into a *PanicError.
func Protect[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v = zero
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return fn()
}
