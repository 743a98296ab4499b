// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package exec

import (
	"sort"

	"github.com/gogama/httpcore/future"
	"github.com/gogama/httpcore/request"
)

// A Chain is the remainder of a pipeline as seen from one stage.
//
// Proceed runs req through the rest of the pipeline. A Chain may be
// proceeded more than once: each call re-enters every downstream stage,
// which is how a retrying stage resubmits a request.
type Chain interface {
	Ctx() *request.Context
	Proceed(req *request.Request) *future.Future[*request.Response]
}

// An Interceptor is a pipeline stage. Stages run in ascending Order,
// and each decides whether, when and how often to call next.Proceed.
//
// Implementations of Interceptor must be safe for concurrent use by
// multiple goroutines.
type Interceptor interface {
	Proceed(req *request.Request, next Chain) *future.Future[*request.Response]
	Order() int
}

// A Terminal is the final stage of a pipeline, which transmits the
// request and resolves the result from the response stream.
type Terminal interface {
	Send(req *request.Request, ctx *request.Context) *future.Future[*request.Response]
}

// The TerminalFunc type is an adapter to allow the use of ordinary
// functions as terminal stages.
type TerminalFunc func(req *request.Request, ctx *request.Context) *future.Future[*request.Response]

// Send calls f(req, ctx).
func (f TerminalFunc) Send(req *request.Request, ctx *request.Context) *future.Future[*request.Response] {
	return f(req, ctx)
}

// A Pipeline is an immutable, ordered list of interceptors ending in a
// terminal stage.
type Pipeline struct {
	interceptors []Interceptor
	terminal     Terminal
}

// NewPipeline sorts the interceptors by ascending Order, keeping the
// given order among equal values, and returns the resulting pipeline.
func NewPipeline(terminal Terminal, interceptors ...Interceptor) *Pipeline {
	if terminal == nil {
		panic("httpcore/exec: nil terminal")
	}
	sorted := make([]Interceptor, len(interceptors))
	for i, in := range interceptors {
		if in == nil {
			panic("httpcore/exec: nil interceptor")
		}
		sorted[i] = in
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order() < sorted[j].Order()
	})
	return &Pipeline{
		interceptors: sorted,
		terminal:     terminal,
	}
}

// Interceptors returns the pipeline stages in execution order.
func (p *Pipeline) Interceptors() []Interceptor {
	out := make([]Interceptor, len(p.interceptors))
	copy(out, p.interceptors)
	return out
}

// Execute runs req through the whole pipeline using ctx.
func (p *Pipeline) Execute(req *request.Request, ctx *request.Context) *future.Future[*request.Response] {
	return chain{p: p, ctx: ctx}.Proceed(req)
}

type chain struct {
	p   *Pipeline
	i   int
	ctx *request.Context
}

func (c chain) Ctx() *request.Context {
	return c.ctx
}

func (c chain) Proceed(req *request.Request) *future.Future[*request.Response] {
	if c.i < len(c.p.interceptors) {
		next := chain{p: c.p, i: c.i + 1, ctx: c.ctx}
		return c.p.interceptors[c.i].Proceed(req, next)
	}
	return c.p.terminal.Send(req, c.ctx)
}
