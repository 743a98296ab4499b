// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"sync"
	"time"
)

// A Backoff specifies how long to pause before retrying a failed
// attempt. Parameter attempt is the one-based index of the retry about
// to be made: 1 before the first retry, 2 before the second, and so on.
// A result less than or equal to zero means no pause.
//
// Implementations of Backoff must be safe for concurrent use by
// multiple goroutines.
//
// The Interceptor will not call the Backoff if the Predicate declined
// the retry.
type Backoff interface {
	Backoff(attempt int) time.Duration
}

// The BackoffFunc type is an adapter to allow the use of ordinary
// functions as backoffs.
type BackoffFunc func(attempt int) time.Duration

// Backoff returns f(attempt).
func (f BackoffFunc) Backoff(attempt int) time.Duration {
	return f(attempt)
}

// DefaultBackoff is the default backoff. It uses a jittered
// exponential backoff formula with a base pause of 50 milliseconds and
// a maximum pause of 1 second.
var DefaultBackoff = NewExpBackoff(50*time.Millisecond, 1*time.Second, time.Now())

// NewFixedBackoff constructs a Backoff that always returns the given
// duration.
//
// Use NewFixedBackoff to obtain a constant retry pause.
func NewFixedBackoff(d time.Duration) Backoff {
	return fixedBackoff(d)
}

type fixedBackoff time.Duration

func (b fixedBackoff) Backoff(_ int) time.Duration {
	return time.Duration(b)
}

// NewExpBackoff constructs a Backoff implementing an exponential
// backoff formula with optional jitter.
//
// The formula implemented is the "Full Jitter" approach described in:
// https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter.
//
// Parameters base and max control the exponential calculation of the
// ceiling:
//
//	ceil := min(base * 2**(attempt-1), max)
//
// Base and max must be positive values, and max must be at least equal
// to base.
//
// Parameter jitter is used to generate a random number between 0 and
// ceil. To make a backoff that does not jitter and simply returns ceil
// on each attempt, pass nil for jitter. Otherwise you may specify
// either a random number generator seed value (as a time.Time, int, or
// int64) or a random number generator (as a rand.Source). If a seed
// value is specified, it is used to seed a random number generator
// for calculating jitter. If a rand.Source is specified, it is used to
// calculate jitter.
func NewExpBackoff(base, max time.Duration, jitter interface{}) Backoff {
	if base < 1 {
		panic("httpcore/retry: base must be positive")
	}
	if max < base {
		panic("httpcore/retry: max must be at least base")
	}
	r := jitterToRand(jitter)
	return &jitterExpBackoff{
		base: base,
		max:  max,
		rand: r,
	}
}

type jitterExpBackoff struct {
	base time.Duration
	max  time.Duration
	rand *rand.Rand
	lock sync.Mutex
}

func (b *jitterExpBackoff) Backoff(attempt int) time.Duration {
	shift := attempt - 1
	if shift < 0 {
		shift = 0
	}
	exp := int64(1) << shift
	if exp < 1 || shift > 62 {
		exp = 1<<63 - 1
	}

	ceil := int64(b.base) * exp
	if ceil/exp != int64(b.base) || ceil < int64(b.base) || int64(b.max) < ceil {
		ceil = int64(b.max)
	}

	duration := ceil
	if ceil > 0 {
		b.lock.Lock()
		defer b.lock.Unlock()
		if b.rand != nil {
			duration = b.rand.Int63n(ceil)
		}
	}

	return time.Duration(duration)
}

func jitterToRand(jitter interface{}) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("httpcore/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("httpcore/retry: invalid jitter type")
	}
	return rand.New(s)
}
