// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/gogama/httpcore/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, method string) (*request.Request, *request.Context) {
	req, err := request.New(method, "http://example.com/foo", nil)
	require.NoError(t, err)
	return req, request.NewContext(context.Background(), req)
}

func TestDefaultPredicate(t *testing.T) {
	t.Run("Retryable status codes", func(t *testing.T) {
		codes := []int{429, 502, 503, 504}
		req, ctx := newTestContext(t, "GET")
		for i, code := range codes {
			t.Run(fmt.Sprintf("codes[%d]=%d", i, code), func(t *testing.T) {
				assert.True(t, DefaultPredicate(req, &request.Response{StatusCode: code}, ctx, nil))
			})
		}
	})
	t.Run("Non-retryable status codes", func(t *testing.T) {
		codes := []int{200, 201, 202, 203, 204, 205, 400, 401, 402, 403, 404, 500}
		req, ctx := newTestContext(t, "GET")
		for i, code := range codes {
			t.Run(fmt.Sprintf("codes[%d]=%d", i, code), func(t *testing.T) {
				assert.False(t, DefaultPredicate(req, &request.Response{StatusCode: code}, ctx, nil))
			})
		}
	})
	t.Run("Transient errors", func(t *testing.T) {
		req, ctx := newTestContext(t, "PUT")
		for i, te := range transientErrs {
			t.Run(fmt.Sprintf("transientErrs[%d]=%v", i, te), func(t *testing.T) {
				assert.True(t, DefaultPredicate(req, nil, ctx, te))
			})
		}
	})
	t.Run("Non-transient errors", func(t *testing.T) {
		req, ctx := newTestContext(t, "GET")
		for i, nte := range nonTransientErrs {
			t.Run(fmt.Sprintf("nonTransientErrs[%d]=%v", i, nte), func(t *testing.T) {
				assert.False(t, DefaultPredicate(req, nil, ctx, nte))
			})
		}
	})
	t.Run("Non-idempotent method", func(t *testing.T) {
		req, ctx := newTestContext(t, "POST")
		assert.False(t, DefaultPredicate(req, &request.Response{StatusCode: 503}, ctx, nil))
		assert.False(t, DefaultPredicate(req, nil, ctx, syscall.ECONNRESET))
	})
}

func TestTransientErr(t *testing.T) {
	for i, te := range transientErrs {
		t.Run(fmt.Sprintf("transientErrs[%d]=%v", i, te), func(t *testing.T) {
			assert.True(t, transientErr(nil, nil, nil, te))
			assert.True(t, transientErr(nil, nil, nil, &url.Error{Err: te}))
		})
	}
	for j, nte := range nonTransientErrs {
		t.Run(fmt.Sprintf("nonTransientErrs[%d]=%v", j, nte), func(t *testing.T) {
			assert.False(t, transientErr(nil, nil, nil, nte))
			assert.False(t, transientErr(nil, nil, nil, &url.Error{Err: nte}))
		})
	}
}

func TestPredicateAnd(t *testing.T) {
	tt := Always.And(Always)
	tf := Always.And(Never)
	ft := Never.And(Always)
	ff := Never.And(Never)
	assert.True(t, tt.CanRetry(nil, nil, nil, nil))
	assert.False(t, tf.CanRetry(nil, nil, nil, nil))
	assert.False(t, ft.CanRetry(nil, nil, nil, nil))
	assert.False(t, ff.CanRetry(nil, nil, nil, nil))
}

func TestPredicateOr(t *testing.T) {
	tt := Always.Or(Always)
	tf := Always.Or(Never)
	ft := Never.Or(Always)
	ff := Never.Or(Never)
	assert.True(t, tt.CanRetry(nil, nil, nil, nil))
	assert.True(t, tf.CanRetry(nil, nil, nil, nil))
	assert.True(t, ft.CanRetry(nil, nil, nil, nil))
	assert.False(t, ff.CanRetry(nil, nil, nil, nil))
}

func TestTimes(t *testing.T) {
	req, ctx := newTestContext(t, "GET")
	zero := Times(0)
	assert.False(t, zero(req, nil, ctx, nil))
	one := Times(1)
	assert.True(t, one(req, nil, ctx, nil))
	ctx.SetAttr(request.RetriedCount, 1)
	assert.False(t, one(req, nil, ctx, nil))
	two := Times(2)
	assert.True(t, two(req, nil, ctx, nil))
	ctx.SetAttr(request.RetriedCount, 2)
	assert.False(t, two(req, nil, ctx, nil))
}

func TestBefore(t *testing.T) {
	req, ctx := newTestContext(t, "GET")
	assert.True(t, Before(time.Minute)(req, nil, ctx, nil))
	assert.False(t, Before(-time.Second)(req, nil, ctx, nil))
}

func TestStatusCode(t *testing.T) {
	empty := StatusCode()
	assert.False(t, empty(nil, nil, nil, nil))
	one := StatusCode(602)
	assert.False(t, one(nil, nil, nil, nil))
	r := request.Response{}
	assert.False(t, empty(nil, &r, nil, nil))
	assert.False(t, one(nil, &r, nil, nil))
	r.StatusCode = 602
	assert.True(t, one(nil, &r, nil, nil))
	two := StatusCode(509, 602)
	assert.True(t, two(nil, &r, nil, nil))
	r.StatusCode = 509
	assert.True(t, two(nil, &r, nil, nil))
	r.StatusCode = 508
	assert.False(t, two(nil, &r, nil, nil))
}

func TestIdempotent(t *testing.T) {
	for _, m := range []string{"", "GET", "HEAD", "OPTIONS", "TRACE", "PUT", "DELETE", "get"} {
		assert.True(t, Idempotent(&request.Request{Method: m}, nil, nil, nil), m)
	}
	for _, m := range []string{"POST", "PATCH", "CONNECT"} {
		assert.False(t, Idempotent(&request.Request{Method: m}, nil, nil, nil), m)
	}
	assert.False(t, Idempotent(nil, nil, nil, nil))
}

var (
	transientErrs = []error{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.ETIMEDOUT,
	}
	nonTransientErrs = []error{
		nil,
		errors.New("ain't transient"),
		syscall.EHOSTUNREACH,
		syscall.ENETDOWN,
	}
)
