// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package exec

import (
	"context"
	"fmt"
	"testing"

	"github.com/gogama/httpcore/future"
	"github.com/gogama/httpcore/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name  string
	order int
	times int
	log   *[]string
}

func (r *recorder) Order() int { return r.order }

func (r *recorder) Proceed(req *request.Request, next Chain) *future.Future[*request.Response] {
	*r.log = append(*r.log, r.name)
	var f *future.Future[*request.Response]
	for i := 0; i < r.times; i++ {
		f = next.Proceed(req)
	}
	return f
}

func TestNewPipeline(t *testing.T) {
	assert.PanicsWithValue(t, "httpcore/exec: nil terminal", func() { NewPipeline(nil) })
	term := TerminalFunc(func(*request.Request, *request.Context) *future.Future[*request.Response] { return nil })
	assert.PanicsWithValue(t, "httpcore/exec: nil interceptor", func() { NewPipeline(term, nil) })
}

func TestPipeline_Execute(t *testing.T) {
	var log []string
	a := &recorder{name: "a", order: 10, times: 1, log: &log}
	b := &recorder{name: "b", order: -4000, times: 2, log: &log}
	c := &recorder{name: "c", order: 10, times: 1, log: &log}
	sends := 0
	resp := &request.Response{StatusCode: 200}
	var seen *request.Context
	term := TerminalFunc(func(req *request.Request, ctx *request.Context) *future.Future[*request.Response] {
		sends++
		seen = ctx
		log = append(log, fmt.Sprintf("send%d", sends))
		return future.Succeeded(resp)
	})

	p := NewPipeline(term, a, b, c)
	assert.Equal(t, []Interceptor{b, a, c}, p.Interceptors())

	req := &request.Request{Method: "GET"}
	ctx := request.NewContext(context.Background(), req)
	r, err := p.Execute(req, ctx).Result()
	require.NoError(t, err)
	assert.Same(t, resp, r)
	assert.Same(t, ctx, seen)
	assert.Equal(t, 2, sends)
	assert.Equal(t, []string{"b", "a", "c", "send1", "a", "c", "send2"}, log)
}

func TestPipeline_NoInterceptors(t *testing.T) {
	boom := fmt.Errorf("boom")
	p := NewPipeline(TerminalFunc(func(*request.Request, *request.Context) *future.Future[*request.Response] {
		return future.Failed[*request.Response](boom)
	}))
	_, err := p.Execute(&request.Request{}, request.NewContext(context.Background(), nil)).Result()
	assert.Same(t, boom, err)
}
