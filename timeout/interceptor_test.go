// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gogama/httpcore/exec"
	"github.com/gogama/httpcore/future"
	"github.com/gogama/httpcore/request"
	"github.com/gogama/httpcore/transient"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipeline(in *Interceptor, inner *future.Future[*request.Response]) *exec.Pipeline {
	return exec.NewPipeline(exec.TerminalFunc(func(*request.Request, *request.Context) *future.Future[*request.Response] {
		return inner
	}), in)
}

func newRequest(t *testing.T) (*request.Request, *request.Context) {
	req, err := request.New("GET", "http://example.com/slow", nil)
	require.NoError(t, err)
	return req, request.NewContext(context.Background(), req)
}

func TestInterceptor(t *testing.T) {
	t.Run("order", func(t *testing.T) {
		assert.Equal(t, -3000, NewInterceptor(nil, zerolog.Nop()).Order())
	})
	t.Run("completes in time", func(t *testing.T) {
		req, ctx := newRequest(t)
		ctx.SetAttr(request.LastAttemptTimedOut, true)
		resp := &request.Response{StatusCode: 200}
		p := pipeline(NewInterceptor(Fixed(time.Hour), zerolog.Nop()), future.Succeeded(resp))
		got, err := p.Execute(req, ctx).Result()
		require.NoError(t, err)
		assert.Same(t, resp, got)
		assert.False(t, ctx.BoolAttr(request.LastAttemptTimedOut))
		assert.Equal(t, 0, ctx.IntAttr(request.AttemptTimeouts, 0))
	})
	t.Run("passes failure through", func(t *testing.T) {
		req, ctx := newRequest(t)
		boom := errors.New("boom")
		p := pipeline(NewInterceptor(Infinite, zerolog.Nop()), future.Failed[*request.Response](boom))
		_, err := p.Execute(req, ctx).Result()
		assert.Same(t, boom, err)
	})
	t.Run("times out", func(t *testing.T) {
		req, ctx := newRequest(t)
		inner := future.New[*request.Response]()
		p := pipeline(NewInterceptor(Fixed(5*time.Millisecond), zerolog.Nop()), inner)
		_, err := p.Execute(req, ctx).Result()
		var te *Error
		require.ErrorAs(t, err, &te)
		assert.Equal(t, 5*time.Millisecond, te.After)
		assert.Equal(t, "http://example.com/slow", te.URL)
		assert.Equal(t, transient.Timeout, transient.Categorize(err))
		assert.True(t, inner.IsCancelled())
		assert.True(t, ctx.BoolAttr(request.LastAttemptTimedOut))
		assert.Equal(t, 1, ctx.IntAttr(request.AttemptTimeouts, 0))
	})
	t.Run("adaptive across attempts", func(t *testing.T) {
		req, ctx := newRequest(t)
		in := NewInterceptor(Adaptive(time.Millisecond, 2*time.Millisecond), zerolog.Nop())
		for i := 1; i <= 3; i++ {
			inner := future.New[*request.Response]()
			_, err := pipeline(in, inner).Execute(req, ctx).Result()
			var te *Error
			require.ErrorAs(t, err, &te)
			if i == 1 {
				assert.Equal(t, time.Millisecond, te.After)
			} else {
				assert.Equal(t, 2*time.Millisecond, te.After)
			}
			assert.Equal(t, i, ctx.IntAttr(request.AttemptTimeouts, 0))
		}
	})
	t.Run("cancel", func(t *testing.T) {
		req, ctx := newRequest(t)
		inner := future.New[*request.Response]()
		f := pipeline(NewInterceptor(Infinite, zerolog.Nop()), inner).Execute(req, ctx)
		f.Cancel()
		assert.Eventually(t, inner.IsCancelled, time.Second, time.Millisecond)
	})
}
