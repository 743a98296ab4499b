// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogama/httpcore/exec"
	"github.com/gogama/httpcore/future"
	"github.com/gogama/httpcore/request"
	"github.com/rs/zerolog"
)

// Order is the pipeline order of the retry Interceptor. It runs ahead
// of every transport-facing stage so each retry re-enters the whole
// remainder of the pipeline, including address selection and
// connection acquisition.
const Order = -4000

// An Interceptor is the pipeline stage that resubmits a request while
// its Predicate accepts, up to the number of retries held by the
// request.MaxRetries attribute.
//
// Attempts of one execution are strictly sequential. After issuing the
// first attempt on the caller's goroutine, Proceed hands the execution
// to a goroutine which waits for each attempt, settles it, pauses if
// the Backoff says so, and issues the next.
type Interceptor struct {
	predicate Predicate
	backoff   Backoff
	logger    zerolog.Logger
}

// NewInterceptor returns a retry Interceptor. Predicate p must not be
// nil. A nil Backoff means retries are made without pausing.
func NewInterceptor(p Predicate, b Backoff, logger zerolog.Logger) *Interceptor {
	if p == nil {
		panic("httpcore/retry: nil predicate")
	}
	return &Interceptor{
		predicate: p,
		backoff:   b,
		logger:    logger,
	}
}

// Order returns Order.
func (in *Interceptor) Order() int {
	return Order
}

// Proceed executes req through next, retrying as described on
// Interceptor. If the request.MaxRetries attribute is absent or less
// than 1, or the request body cannot be replayed, Proceed simply
// returns next.Proceed(req).
func (in *Interceptor) Proceed(req *request.Request, next exec.Chain) *future.Future[*request.Response] {
	ctx := next.Ctx()
	max := maxRetries(ctx)
	if max < 1 {
		return next.Proceed(req)
	}
	if !req.Replayable() {
		ctx.RemoveAttr(request.MaxRetries)
		in.logger.Debug().
			Str("execution_id", ctx.ID()).
			Stringer("request", req).
			Int("max_retries", max).
			Msg("retry ignored")
		return next.Proceed(req)
	}

	outer := future.New[*request.Response]()
	attempt := issue(req, next)
	go in.loop(req, next, max, outer, attempt)
	return outer
}

func (in *Interceptor) loop(req *request.Request, next exec.Chain, max int, outer, attempt *future.Future[*request.Response]) {
	ctx := next.Ctx()
	for {
		select {
		case <-attempt.Done():
		case <-outer.Done():
			attempt.Cancel()
			return
		}

		resp, err := attempt.Result()
		count, again := in.settle(req, ctx, max, outer, resp, err)
		if !again {
			return
		}
		if !in.pause(req, ctx, max, outer, count+1) {
			return
		}
		if outer.IsDone() {
			return
		}
		in.logger.Debug().
			Str("execution_id", ctx.ID()).
			Stringer("request", req).
			Int("retry_count", count+1).
			Msg("begin to retry")
		attempt = issue(req, next)
	}
}

// settle records a completed attempt and either resolves outer, or
// returns the updated retried count and true to ask for another
// attempt. Panics are resolved into a Machinery error.
func (in *Interceptor) settle(req *request.Request, ctx *request.Context, max int, outer *future.Future[*request.Response], resp *request.Response, err error) (count int, again bool) {
	defer func() {
		if r := recover(); r != nil {
			outer.Fail(&Error{
				Kind:       Machinery,
				URL:        target(req),
				MaxRetries: max,
				Err:        fmt.Errorf("panic: %v", r),
			})
			count, again = 0, false
		}
	}()

	count = -1
	if prev := ctx.RemoveAttr(request.RetriedCount); prev != nil {
		count = prev.(int)
	}
	count++
	ctx.SetAttr(request.RetriedCount, count)

	if !in.predicate.CanRetry(req, resp, ctx, err) {
		if err == nil {
			outer.Complete(resp)
		} else {
			outer.Fail(future.Unwrap(err))
		}
		return count, false
	}

	if count >= max {
		outer.Fail(&Error{
			Kind:       Exhausted,
			URL:        target(req),
			MaxRetries: max,
			Err:        future.Unwrap(err),
		})
		return count, false
	}
	return count, true
}

// pause waits for the backoff before retry number n. It reports false
// if outer was resolved while pausing, either because the execution
// was cancelled or because the backoff itself failed. A request
// context already done fails outer as Interrupted without consulting
// the backoff.
func (in *Interceptor) pause(req *request.Request, ctx *request.Context, max int, outer *future.Future[*request.Response], n int) bool {
	if err := ctx.Context().Err(); err != nil {
		outer.Fail(&Error{Kind: Interrupted, URL: target(req), MaxRetries: max, Err: err})
		return false
	}
	d, err := in.backoffFor(n)
	if err != nil {
		outer.Fail(&Error{Kind: Machinery, URL: target(req), MaxRetries: max, Err: err})
		return false
	}
	if d <= 0 {
		return true
	}

	in.logger.Debug().
		Str("execution_id", ctx.ID()).
		Stringer("request", req).
		Int("retry_count", n).
		Dur("backoff", d).
		Msg("back off")
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Context().Done():
		outer.Fail(&Error{
			Kind:       Interrupted,
			URL:        target(req),
			MaxRetries: max,
			Err:        ctx.Context().Err(),
		})
		return false
	case <-outer.Done():
		return false
	}
}

func (in *Interceptor) backoffFor(n int) (d time.Duration, err error) {
	if in.backoff == nil {
		return 0, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return in.backoff.Backoff(n), nil
}

// issue issues one attempt through next. A panic escaping the rest
// of the pipeline fails the attempt with a *future.ExecutionError.
func issue(req *request.Request, next exec.Chain) (f *future.Future[*request.Response]) {
	defer func() {
		if r := recover(); r != nil {
			f = future.Failed[*request.Response](&future.ExecutionError{Err: fmt.Errorf("panic: %v", r)})
		}
	}()
	f = next.Proceed(req)
	if f == nil {
		f = future.Failed[*request.Response](&future.ExecutionError{Err: errors.New("nil result from pipeline")})
	}
	return
}

func maxRetries(ctx *request.Context) int {
	max, _ := ctx.Attr(request.MaxRetries).(int)
	return max
}

func target(req *request.Request) string {
	if req.URL == nil {
		return ""
	}
	return req.URL.String()
}
