// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/httpcore/request"
	"github.com/gogama/httpcore/transient"
)

// A Predicate decides if a completed attempt should be retried. It is
// the sole arbiter of retryability: the Interceptor only adds the
// bound on the number of retries.
//
// Parameter resp is the response of the attempt, or nil if the attempt
// failed with err. By the time the Predicate is consulted, the
// request.RetriedCount attribute of ctx has been updated to count the
// attempt.
//
// Implementations of Predicate must be safe for concurrent use by
// multiple goroutines.
//
// Use the built-in constructors Times, StatusCode, and Before, and the
// built-in predicates Idempotent and TransientErr; or implement your
// Predicate. Use PredicateFunc to convert an ordinary function into a
// Predicate, and to compose predicates logically using PredicateFunc.And
// and PredicateFunc.Or.
type Predicate interface {
	CanRetry(req *request.Request, resp *request.Response, ctx *request.Context, err error) bool
}

// The PredicateFunc type is an adapter to allow the use of ordinary
// functions as retry predicates. It implements the Predicate interface,
// and also provides the logical composition methods And and Or.
//
// Every PredicateFunc must be safe for concurrent use by multiple
// goroutines.
type PredicateFunc func(req *request.Request, resp *request.Response, ctx *request.Context, err error) bool

// DefaultPredicate is a general-purpose retry predicate suitable for
// common use cases. It retries idempotent requests if the attempt
// failed with a transient error (TransientErr), or if a valid HTTP
// response was received but it contains one of the following status
// codes: 429 (Too Many Requests); 502 (Bad Gateway); 503 (Service
// Unavailable); or 504 (Gateway Timeout).
var DefaultPredicate = Idempotent.And(StatusCode(429, 502, 503, 504).Or(TransientErr))

// Always is a predicate that accepts every retry.
var Always PredicateFunc = func(_ *request.Request, _ *request.Response, _ *request.Context, _ error) bool {
	return true
}

// Never is a predicate that declines every retry.
var Never PredicateFunc = func(_ *request.Request, _ *request.Response, _ *request.Context, _ error) bool {
	return false
}

// Idempotent is a predicate that accepts a retry only if the request
// method is idempotent.
var Idempotent PredicateFunc = func(req *request.Request, _ *request.Response, _ *request.Context, _ error) bool {
	return req != nil && request.Idempotent(req.Method)
}

// TransientErr is a predicate that indicates a retry if the attempt
// error is transient according to transient.Categorize.
//
// TransientErr only looks at the error, so it will always return false
// if a valid HTTP response is returned. Compose it with other
// predicates, for example a status code predicate constructed with
// StatusCode, to get more complex functionality.
var TransientErr PredicateFunc = transientErr

// CanRetry returns true if a retry should be done, and false otherwise.
func (f PredicateFunc) CanRetry(req *request.Request, resp *request.Response, ctx *request.Context, err error) bool {
	return f(req, resp, ctx, err)
}

// And composes two retry predicates into a new predicate which returns
// true if both sub-predicates return true, and false otherwise.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// false.
func (f PredicateFunc) And(g PredicateFunc) PredicateFunc {
	return func(req *request.Request, resp *request.Response, ctx *request.Context, err error) bool {
		return f(req, resp, ctx, err) && g(req, resp, ctx, err)
	}
}

// Or composes two retry predicates into a new predicate which returns
// true if either of the two sub-predicates returns true, but false if
// they both return false.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// true.
func (f PredicateFunc) Or(g PredicateFunc) PredicateFunc {
	return func(req *request.Request, resp *request.Response, ctx *request.Context, err error) bool {
		return f(req, resp, ctx, err) || g(req, resp, ctx, err)
	}
}

// Times constructs a retry predicate which allows up to n retries. The
// returned predicate returns true while the request.RetriedCount
// attribute is less than n, and false otherwise.
//
// Times is only needed to bound retries below the request.MaxRetries
// attribute, which the Interceptor always enforces.
func Times(n int) PredicateFunc {
	return func(_ *request.Request, _ *request.Response, ctx *request.Context, _ error) bool {
		return ctx.IntAttr(request.RetriedCount, 0) < n
	}
}

// Before constructs a retry predicate allowing retries until a certain
// amount of time has elapsed since the start of the execution. The
// returned predicate returns true while the execution duration is less
// than d, and false afterward.
func Before(d time.Duration) PredicateFunc {
	return func(_ *request.Request, _ *request.Response, ctx *request.Context, _ error) bool {
		return ctx.Duration() < d
	}
}

// StatusCode constructs a retry predicate allowing retries based on the
// HTTP response status code. If the attempt received a valid HTTP
// response, and the response status code is contained in the list ss,
// the predicate returns true. Otherwise, it returns false.
func StatusCode(ss ...int) PredicateFunc {
	ss2 := make([]int, len(ss))
	copy(ss2, ss)
	return func(_ *request.Request, resp *request.Response, _ *request.Context, _ error) bool {
		if resp == nil {
			return false
		}
		for _, s := range ss2 {
			if resp.StatusCode == s {
				return true
			}
		}
		return false
	}
}

func transientErr(_ *request.Request, _ *request.Response, _ *request.Context, err error) bool {
	return transient.Categorize(err) != transient.Not
}
