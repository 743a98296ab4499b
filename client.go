// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpcore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/gogama/httpcore/address"
	"github.com/gogama/httpcore/body"
	"github.com/gogama/httpcore/buffer"
	"github.com/gogama/httpcore/config"
	"github.com/gogama/httpcore/exec"
	"github.com/gogama/httpcore/future"
	"github.com/gogama/httpcore/handle"
	"github.com/gogama/httpcore/metrics"
	"github.com/gogama/httpcore/request"
	"github.com/gogama/httpcore/retry"
	"github.com/gogama/httpcore/timeout"
	"github.com/gogama/httpcore/transport"
	"github.com/rs/zerolog"
)

// DefaultMaxRetries is the number of retries a Client allows when its
// MaxRetries field is zero.
const DefaultMaxRetries = 5

// A Client executes requests asynchronously over connections taken
// from a transport.Pool, with retry support. Apart from Pool, its zero
// value is a valid configuration.
//
// Every execution runs through a pipeline of interceptors ending in
// the transport stage. The pipeline always contains the retry stage
// (ordered retry.Order) and the timeout stage (ordered timeout.Order),
// plus the interceptors given in Interceptors, sorted by their Order.
// The transport stage then:
//
// • selects the server address using Selector;
//
// • acquires a connection to the address from Pool;
//
// • registers a handle buffering the response in the connection's
// handle registry, the registry id becoming the stream identifier on
// multiplexed connections; and
//
// • writes the request to the connection using Writer.
//
// The connection's reader routes the response to the handle, which
// resolves the attempt. A Client is safe for concurrent use by multiple
// goroutines, but its fields must not be changed once it is in use.
type Client struct {
	// Pool supplies connections. It must not be nil.
	Pool transport.Pool
	// Selector chooses the address of the server for each attempt.
	//
	// If Selector is nil, address.Default is used.
	Selector address.Selector
	// Allocator allocates response body buffers.
	//
	// If Allocator is nil, buffer.Pooled is used.
	Allocator buffer.Allocator
	// Writer writes requests to connections.
	Writer body.Writer
	// Interceptors are extra pipeline stages.
	Interceptors []exec.Interceptor
	// RetryPredicate decides whether a concluded attempt is retried.
	//
	// If RetryPredicate is nil, retry.DefaultPredicate is used.
	RetryPredicate retry.Predicate
	// Backoff decides how long to pause before each retry.
	//
	// If Backoff is nil, retry.DefaultBackoff is used.
	Backoff retry.Backoff
	// TimeoutPolicy specifies how to set timeouts on individual
	// attempts.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
	// MaxRetries is the maximum number of retries per execution. Zero
	// means DefaultMaxRetries, and a negative value disables retry.
	MaxRetries int
	// ExpectContinue makes requests with a body wait for a 100 Continue
	// response before sending it.
	ExpectContinue bool
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during an execution.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
	// Logger receives debug logs about retries and timeouts. The zero
	// value discards everything.
	Logger zerolog.Logger
}

// NewClient returns a Client configured by cfg, drawing connections
// from pool. If cfg is nil, config.Default is used. The client logs to
// standard error.
func NewClient(cfg *config.Config, pool transport.Pool) (*Client, error) {
	if pool == nil {
		panic("httpcore: nil pool")
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := cfg.Log.Logger(os.Stderr)
	if err != nil {
		return nil, err
	}
	maxRetries := cfg.Retry.MaxRetries
	if maxRetries == 0 {
		maxRetries = -1
	}
	return &Client{
		Pool:           pool,
		Writer:         body.Writer{ChunkSize: cfg.Body.ChunkSize},
		Backoff:        cfg.Retry.Backoff(),
		TimeoutPolicy:  cfg.Timeout.Policy(),
		MaxRetries:     maxRetries,
		ExpectContinue: cfg.Body.ExpectContinue,
		Logger:         logger,
	}, nil
}

// Execute executes req and returns its eventual result, following the
// retry and timeout policy set on Client.
//
// If ctx is done while an attempt is in flight, the attempt fails with
// a *url.Error wrapping ctx.Err(). If ctx is done while the retry stage
// backs off, the result fails with a *retry.Error of Kind Interrupted.
// Cancelling the result stops the execution: the in-flight attempt is
// cancelled, its handle unregistered and its buffers released.
//
// Errors from the transport stage are *url.Error values. Errors from
// the retry stage are *retry.Error values wrapping the cause of the
// last attempt's failure.
func (c *Client) Execute(ctx context.Context, req *request.Request) *future.Future[*request.Response] {
	if c.Pool == nil {
		panic("httpcore: nil pool")
	}
	if req == nil {
		panic("httpcore: nil request")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rc := request.NewContext(ctx, req)
	if n := c.maxRetries(); n > 0 {
		rc.SetAttr(request.MaxRetries, n)
	}
	if c.ExpectContinue {
		rc.SetAttr(request.ExpectContinueEnabled, true)
	}

	c.Handlers.run(BeforeExecutionStart, rc)
	result := c.pipeline().Execute(req, rc)
	result.OnComplete(func(*request.Response, error) {
		c.Handlers.run(AfterExecutionEnd, rc)
	})
	return result
}

// Metrics returns the pool's metrics provider, or nil if the pool does
// not expose metrics.
func (c *Client) Metrics() metrics.Provider {
	p, _ := c.Pool.(metrics.Provider)
	return p
}

func (c *Client) maxRetries() int {
	if c.MaxRetries == 0 {
		return DefaultMaxRetries
	}
	return c.MaxRetries
}

func (c *Client) pipeline() *exec.Pipeline {
	p := c.RetryPredicate
	if p == nil {
		p = retry.DefaultPredicate
	}
	b := c.Backoff
	if b == nil {
		b = retry.DefaultBackoff
	}
	interceptors := make([]exec.Interceptor, 0, len(c.Interceptors)+2)
	interceptors = append(interceptors,
		retry.NewInterceptor(p, b, c.Logger),
		timeout.NewInterceptor(c.TimeoutPolicy, c.Logger))
	interceptors = append(interceptors, c.Interceptors...)
	return exec.NewPipeline(exec.TerminalFunc(c.send), interceptors...)
}

// send is the transport stage. Acquiring the connection and writing
// the request happen on a new goroutine. The future send returns is
// resolved only after the AfterAttempt handlers have run, unless an
// upstream stage cancels it first.
func (c *Client) send(req *request.Request, ctx *request.Context) *future.Future[*request.Response] {
	c.Handlers.run(BeforeAttempt, ctx)
	attempt := future.New[*request.Response]()
	result := future.New[*request.Response]()
	acquireCtx, cancel := context.WithCancel(ctx.Context())
	stop := context.AfterFunc(ctx.Context(), func() {
		result.Fail(urlErrorWrap(req, ctx.Context().Err()))
	})
	attempt.OnComplete(func(*request.Response, error) {
		stop()
		cancel()
		result.Cancel()
	})

	go func() {
		defer result.OnComplete(func(resp *request.Response, err error) {
			c.Handlers.run(AfterAttempt, ctx)
			if err != nil {
				attempt.Fail(err)
			} else {
				attempt.Complete(resp)
			}
		})
		defer func() {
			if r := recover(); r != nil {
				result.Fail(&future.ExecutionError{Err: fmt.Errorf("panic: %v", r)})
			}
		}()
		c.transmit(acquireCtx, req, ctx, result)
	}()
	return attempt
}

// transmit acquires a connection, registers a handle resolving result
// on it, and writes req. Once result is resolved, the handle is
// unregistered if the connection has not already done so, and the
// connection is released.
func (c *Client) transmit(acquireCtx context.Context, req *request.Request, ctx *request.Context, result *future.Future[*request.Response]) {
	addr := c.selector().Select(req)
	conn, err := c.Pool.Acquire(acquireCtx, addr)
	if err != nil {
		result.Fail(urlErrorWrap(req, err))
		return
	}
	if result.IsDone() {
		c.Pool.Release(conn)
		return
	}

	h := handle.NewBuffered(req, ctx, result, c.Allocator)
	handles := conn.Handles()
	id, err := handles.Put(h)
	if err != nil {
		c.Pool.Release(conn)
		result.Fail(urlErrorWrap(req, err))
		return
	}
	ctx.SetAttr(request.RequestID, id)
	if conn.Multiplexed() {
		req = req.WithStreamID(uint32(id))
	}

	written := c.Writer.Write(req, conn, ctx, conn.Secure(), conn.Version(), conn.Multiplexed())
	written.OnComplete(func(_ struct{}, err error) {
		if err != nil && !errors.Is(err, future.ErrCancelled) {
			detach(handles, id, h, urlErrorWrap(req, err))
		}
	})
	result.OnComplete(func(_ *request.Response, err error) {
		written.Cancel()
		ctx.RemoveAttr(request.ExpectContinueCallback)
		if err == nil {
			err = future.ErrCancelled
		}
		detach(handles, id, h, err)
		c.Pool.Release(conn)
	})
}

func (c *Client) selector() address.Selector {
	if c.Selector == nil {
		return address.Default
	}
	return c.Selector
}

// detach unregisters h if it is still registered under id, and fails
// it with err, releasing its buffers.
func detach(handles *handle.Registry, id int32, h handle.Handle, err error) {
	if got, ok := handles.Get(id); !ok || got != h {
		return
	}
	if got, ok := handles.Remove(id); ok {
		got.OnError(err)
	}
}

func urlErrorWrap(req *request.Request, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return err
	}

	u := ""
	if req.URL != nil {
		u = req.URL.String()
	}
	return &url.Error{
		Op:  urlErrorOp(req.Method),
		URL: u,
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
