// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpcore

import (
	"github.com/gogama/httpcore/request"
)

// A HandlerGroup is a group of event handler chains which can be
// installed in a Client.
//
// Handlers must be pushed before the group is installed. A group is
// read concurrently by every execution of the client it is installed
// in, and may not be changed afterwards.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds an event handler to the back of the event handler
// chain for a specific event type.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("httpcore: nil handler")
	}
	if evt < 0 || int(evt) >= numEvents {
		panic("httpcore: unknown event")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

func (g *HandlerGroup) run(evt Event, ctx *request.Context) {
	if g == nil {
		return
	}
	i := int(evt)
	if i < len(g.handlers) {
		run(g.handlers[i], evt, ctx)
	}
}

func run(chain []Handler, evt Event, ctx *request.Context) {
	for _, h := range chain {
		h.Handle(evt, ctx)
	}
}

// A Handler handles the occurrence of an event during an execution.
//
// Handlers run on whichever goroutine raises the event. AfterAttempt
// and AfterExecutionEnd in particular may run on a connection's
// goroutine, so handlers should be quick and must not block.
type Handler interface {
	Handle(Event, *request.Context)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers. If f is a function with appropriate
// signature, then HandlerFunc(f) is a Handler that calls f.
type HandlerFunc func(Event, *request.Context)

// Handle calls f(evt, ctx).
func (f HandlerFunc) Handle(evt Event, ctx *request.Context) {
	f(evt, ctx)
}
