// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"errors"
	"fmt"
)

// A Kind classifies a failure raised by the retry Interceptor itself,
// as opposed to a failure of an attempt.
type Kind int

const (
	// Exhausted indicates the Predicate still accepted a retry after
	// the maximum number of retries was reached.
	Exhausted Kind = iota + 1
	// Interrupted indicates the execution was cancelled while pausing
	// between attempts.
	Interrupted
	// Machinery indicates an unexpected failure while settling an
	// attempt, for example a panicking Predicate.
	Machinery
)

var (
	// ErrExhausted matches every *Error of kind Exhausted.
	ErrExhausted = errors.New("httpcore/retry: retries exhausted")
	// ErrInterrupted matches every *Error of kind Interrupted.
	ErrInterrupted = errors.New("httpcore/retry: interrupted during backoff")
	// ErrMachinery matches every *Error of kind Machinery.
	ErrMachinery = errors.New("httpcore/retry: unexpected error while retrying")
)

// An Error is a failure raised by the retry Interceptor. Use errors.Is
// with ErrExhausted, ErrInterrupted or ErrMachinery to test its kind.
type Error struct {
	Kind       Kind
	URL        string
	MaxRetries int
	// Err is the underlying cause, if any.
	Err error
}

func (err *Error) Error() string {
	switch err.Kind {
	case Exhausted:
		return fmt.Sprintf("httpcore/retry: failed to proceed request: %s after maxRetries: %d", err.URL, err.MaxRetries)
	case Interrupted:
		return fmt.Sprintf("httpcore/retry: interrupted during retry interval: %s: %v", err.URL, err.Err)
	default:
		return fmt.Sprintf("httpcore/retry: unexpected error while retrying: %s: %v", err.URL, err.Err)
	}
}

func (err *Error) Unwrap() error {
	return err.Err
}

// Is reports whether target is the sentinel error for err's Kind.
func (err *Error) Is(target error) bool {
	switch target {
	case ErrExhausted:
		return err.Kind == Exhausted
	case ErrInterrupted:
		return err.Kind == Interrupted
	case ErrMachinery:
		return err.Kind == Machinery
	}
	return false
}
