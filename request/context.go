// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// A Key names an attribute stored in a Context. Keys used by this
// module are namespaced with a leading "$" so they cannot collide with
// keys chosen by interceptors or handlers.
type Key string

const (
	// MaxRetries holds an int. Absent or less than 1 disables retry.
	MaxRetries Key = "$retry.max"
	// RetriedCount holds an int: the number of attempts completed
	// during the execution minus one. It is maintained by the retry
	// interceptor and read by diagnostics.
	RetriedCount Key = "$retried.count"
	// ExpectContinueEnabled holds a bool. When true, request bodies are
	// only sent once the server has sent a 100 Continue response.
	ExpectContinueEnabled Key = "$expect.continue.enabled"
	// ExpectContinueCallback holds a ContinueFunc registered by a body
	// writer which is waiting for a 100 Continue response.
	ExpectContinueCallback Key = "$expect.continue.callback"
	// AttemptTimeouts holds an int counting attempts which timed out.
	AttemptTimeouts Key = "$attempt.timeouts"
	// LastAttemptTimedOut holds a bool reporting whether the most recent
	// attempt timed out.
	LastAttemptTimedOut Key = "$attempt.timedout"
	// RequestID holds the int32 id under which the current attempt's
	// response handle is registered on its connection.
	RequestID Key = "$request.id"
)

// A ContinueFunc resumes transmission of a request body that was held
// back waiting for a 100 Continue response.
type ContinueFunc func()

// A Context is the attribute store shared by every stage of the
// execution pipeline for one execution. The same Context is reused by
// every attempt of the execution, so attempt counters persist across
// retries.
//
// Stages access a Context sequentially, one attempt at a time, but a
// Context is nevertheless safe for concurrent use since connection
// goroutines may read attributes (such as ExpectContinueCallback) set
// by the goroutine driving the attempt.
type Context struct {
	id    string
	ctx   context.Context
	req   *Request
	start time.Time

	lock  sync.Mutex
	attrs map[interface{}]interface{}
}

// NewContext returns a new Context for executing req under ctx, which
// must be non-nil.
func NewContext(ctx context.Context, req *Request) *Context {
	if ctx == nil {
		panic("httpcore/request: nil context")
	}
	return &Context{
		id:    uuid.NewString(),
		ctx:   ctx,
		req:   req,
		start: time.Now(),
		attrs: make(map[interface{}]interface{}),
	}
}

// ID returns the unique identifier of the execution.
func (c *Context) ID() string {
	return c.id
}

// Context returns the Go context governing cancellation of the whole
// execution.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Request returns the request being executed.
func (c *Context) Request() *Request {
	return c.req
}

// Start returns the time the execution started.
func (c *Context) Start() time.Time {
	return c.start
}

// Duration returns the time elapsed since the execution started.
func (c *Context) Duration() time.Duration {
	return time.Since(c.start)
}

// Attr returns the value of the attribute key, or nil if it is unset.
func (c *Context) Attr(key interface{}) interface{} {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.attrs[key]
}

// SetAttr sets the attribute key to value.
func (c *Context) SetAttr(key, value interface{}) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.attrs[key] = value
}

// RemoveAttr removes the attribute key and returns its previous value,
// or nil if it was unset.
func (c *Context) RemoveAttr(key interface{}) interface{} {
	c.lock.Lock()
	defer c.lock.Unlock()
	v := c.attrs[key]
	delete(c.attrs, key)
	return v
}

// IntAttr returns the int value of the attribute key, or def if it is
// unset. The conversion is unchecked: IntAttr panics if the attribute
// holds a value of another type.
func (c *Context) IntAttr(key interface{}, def int) int {
	v := c.Attr(key)
	if v == nil {
		return def
	}
	return v.(int)
}

// BoolAttr returns the bool value of the attribute key, or false if it
// is unset or not a bool.
func (c *Context) BoolAttr(key interface{}) bool {
	b, _ := c.Attr(key).(bool)
	return b
}

// Continue removes the ExpectContinueCallback attribute and runs it.
// It reports whether a callback was registered. The connection layer
// calls Continue when a 100 Continue response arrives.
func (c *Context) Continue() bool {
	fn, ok := c.RemoveAttr(ExpectContinueCallback).(ContinueFunc)
	if !ok || fn == nil {
		return false
	}
	fn()
	return true
}
