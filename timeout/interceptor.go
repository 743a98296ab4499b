// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"fmt"
	"time"

	"github.com/gogama/httpcore/exec"
	"github.com/gogama/httpcore/future"
	"github.com/gogama/httpcore/request"
	"github.com/rs/zerolog"
)

// Order is the pipeline order of the timeout Interceptor. It runs
// after the retry stage so that every attempt gets its own timeout.
const Order = -3000

// An Error reports that an attempt did not complete within its
// timeout. Its Timeout method reports true, so transient.Categorize
// classifies it as transient.Timeout.
type Error struct {
	URL   string
	After time.Duration
}

func (err *Error) Error() string {
	return fmt.Sprintf("httpcore/timeout: %s: attempt timed out after %s", err.URL, err.After)
}

// Timeout returns true.
func (err *Error) Timeout() bool {
	return true
}

// An Interceptor bounds the duration of each attempt according to a
// Policy. When an attempt times out, the attempt is cancelled, the
// request.AttemptTimeouts attribute is incremented, the
// request.LastAttemptTimedOut attribute is set, and the attempt fails
// with an *Error.
type Interceptor struct {
	policy Policy
	logger zerolog.Logger
}

// NewInterceptor returns a timeout Interceptor. If p is nil,
// DefaultPolicy is used.
func NewInterceptor(p Policy, logger zerolog.Logger) *Interceptor {
	if p == nil {
		p = DefaultPolicy
	}
	return &Interceptor{policy: p, logger: logger}
}

// Order returns Order.
func (in *Interceptor) Order() int {
	return Order
}

func (in *Interceptor) Proceed(req *request.Request, next exec.Chain) *future.Future[*request.Response] {
	ctx := next.Ctx()
	d := in.policy.Timeout(ctx)
	attempt := next.Proceed(req)

	var expired <-chan time.Time
	if d > 0 && d < Infinite.Timeout(ctx) {
		t := time.NewTimer(d)
		expired = t.C
		attempt.OnComplete(func(*request.Response, error) { t.Stop() })
	}

	outer := future.New[*request.Response]()
	go func() {
		select {
		case <-attempt.Done():
			ctx.SetAttr(request.LastAttemptTimedOut, false)
			resp, err := attempt.Result()
			if err != nil {
				outer.Fail(err)
			} else {
				outer.Complete(resp)
			}
		case <-expired:
			ctx.SetAttr(request.AttemptTimeouts, ctx.IntAttr(request.AttemptTimeouts, 0)+1)
			ctx.SetAttr(request.LastAttemptTimedOut, true)
			in.logger.Debug().
				Str("execution_id", ctx.ID()).
				Stringer("request", req).
				Dur("timeout", d).
				Msg("attempt timed out")
			attempt.Cancel()
			outer.Fail(&Error{URL: urlOf(req), After: d})
		case <-outer.Done():
			attempt.Cancel()
		}
	}()
	return outer
}

func urlOf(req *request.Request) string {
	if req.URL == nil {
		return ""
	}
	return req.URL.String()
}
