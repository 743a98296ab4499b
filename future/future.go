// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package future

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrCancelled is the error held by a Future that was cancelled before
// it was otherwise resolved.
var ErrCancelled = errors.New("httpcore/future: cancelled")

// A Future is a one-shot asynchronous result. It is resolved exactly
// once, either with a value (Complete) or with an error (Fail or
// Cancel). Later resolution attempts are ignored.
//
// A Future is safe for concurrent use by multiple goroutines.
type Future[T any] struct {
	lock      sync.Mutex
	done      chan struct{}
	value     T
	err       error
	callbacks []func(T, error)
}

// New returns an unresolved Future.
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Succeeded returns a Future already completed with v.
func Succeeded[T any](v T) *Future[T] {
	f := New[T]()
	f.Complete(v)
	return f
}

// Failed returns a Future already failed with err.
func Failed[T any](err error) *Future[T] {
	f := New[T]()
	f.Fail(err)
	return f
}

// Complete resolves f with the value v. It reports whether this call
// resolved f.
func (f *Future[T]) Complete(v T) bool {
	return f.resolve(v, nil)
}

// Fail resolves f with the error err, which should be non-nil. It
// reports whether this call resolved f.
func (f *Future[T]) Fail(err error) bool {
	var zero T
	return f.resolve(zero, err)
}

// Cancel fails f with ErrCancelled. It reports whether this call
// resolved f.
func (f *Future[T]) Cancel() bool {
	return f.Fail(ErrCancelled)
}

func (f *Future[T]) resolve(v T, err error) bool {
	f.lock.Lock()
	select {
	case <-f.done:
		f.lock.Unlock()
		return false
	default:
	}
	f.value, f.err = v, err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.lock.Unlock()

	for _, cb := range callbacks {
		cb(v, err)
	}
	return true
}

// Done returns a channel that is closed when f is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsDone reports whether f is resolved.
func (f *Future[T]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// IsCancelled reports whether f was resolved by Cancel.
func (f *Future[T]) IsCancelled() bool {
	if !f.IsDone() {
		return false
	}
	return f.err == ErrCancelled
}

// Result blocks until f is resolved and returns its value and error.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.value, f.err
}

// Await blocks until f is resolved or ctx is done, whichever happens
// first. If ctx is done first, the zero value and ctx.Err() are
// returned and f is left untouched.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnComplete registers fn to run when f is resolved. Callbacks run in
// registration order on the goroutine that resolves f. If f is already
// resolved, fn runs immediately on the calling goroutine.
func (f *Future[T]) OnComplete(fn func(T, error)) {
	f.lock.Lock()
	select {
	case <-f.done:
		f.lock.Unlock()
		fn(f.value, f.err)
		return
	default:
	}
	f.callbacks = append(f.callbacks, fn)
	f.lock.Unlock()
}

// Go runs fn on a new goroutine and returns a Future resolved with its
// result. A panic inside fn fails the Future with an *ExecutionError.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := New[T]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.Fail(&ExecutionError{Err: fmt.Errorf("panic: %v", r)})
			}
		}()
		v, err := fn()
		if err != nil {
			f.Fail(err)
		} else {
			f.Complete(v)
		}
	}()
	return f
}

// An ExecutionError wraps a failure introduced by the asynchronous
// execution machinery rather than by the operation itself.
type ExecutionError struct {
	Err error
}

func (err *ExecutionError) Error() string {
	return "httpcore/future: execution failed: " + err.Err.Error()
}

func (err *ExecutionError) Unwrap() error {
	return err.Err
}

// Unwrap strips every *ExecutionError layer from err and returns the
// underlying cause.
func Unwrap(err error) error {
	for {
		ee, ok := err.(*ExecutionError)
		if !ok || ee.Err == nil {
			return err
		}
		err = ee.Err
	}
}
