// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides the pipeline stage which retries failed
// attempts during an execution, together with flexible policies for
// deciding whether to retry and how long to pause before retrying.
//
// The Interceptor is the retry stage. It is configured with a
// decision-maker, Predicate, and a pause calculator, Backoff. Both have
// constructors for common use cases, so that a useful stage can be
// quickly assembled:
//
//	p := retry.Idempotent.
//		And(retry.Before(5 * time.Second)).
//		And(retry.StatusCode(500).Or(retry.TransientErr))
//	b := retry.NewExpBackoff(100*time.Millisecond, 2*time.Second, time.Now())
//	in := retry.NewInterceptor(p, b, logger)
//
// The number of retries is bounded per execution by the
// request.MaxRetries attribute. Failures raised by the Interceptor
// itself are reported as an *Error; use errors.Is with ErrExhausted,
// ErrInterrupted and ErrMachinery to tell them apart.
package retry
