// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpcore

import (
	"context"
	"net/url"

	"github.com/gogama/httpcore/future"
	"github.com/gogama/httpcore/request"
)

// An Executor executes requests asynchronously.
//
// Client is the canonical implementation of Executor. The interface
// exists so that code issuing requests can be tested without a
// connection pool.
type Executor interface {
	Execute(ctx context.Context, req *request.Request) *future.Future[*request.Response]
}

// The ExecutorFunc type is an adapter to allow the use of ordinary
// functions as executors.
type ExecutorFunc func(ctx context.Context, req *request.Request) *future.Future[*request.Response]

// Execute calls f(ctx, req).
func (f ExecutorFunc) Execute(ctx context.Context, req *request.Request) *future.Future[*request.Response] {
	return f(ctx, req)
}

// Get uses the specified Executor to issue a GET to the specified URL.
func Get(ctx context.Context, e Executor, url string) *future.Future[*request.Response] {
	return do(ctx, e, "GET", url, nil, "")
}

// Head uses the specified Executor to issue a HEAD to the specified
// URL.
func Head(ctx context.Context, e Executor, url string) *future.Future[*request.Response] {
	return do(ctx, e, "HEAD", url, nil, "")
}

// Post uses the specified Executor to issue a POST to the specified
// URL.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.New, namely: string; []byte; and
// io.Reader. An io.Reader body is never retried.
func Post(ctx context.Context, e Executor, url, contentType string, body interface{}) *future.Future[*request.Response] {
	return do(ctx, e, "POST", url, body, contentType)
}

// PostForm uses the specified Executor to issue a POST to the specified
// URL, with data's keys and values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
func PostForm(ctx context.Context, e Executor, url string, data url.Values) *future.Future[*request.Response] {
	return Post(ctx, e, url, "application/x-www-form-urlencoded", data.Encode())
}

// PostFile uses the specified Executor to issue a POST to the specified
// URL, with the contents of the file at path as the request body.
func PostFile(ctx context.Context, e Executor, url, contentType, path string) *future.Future[*request.Response] {
	req, err := request.NewFile("POST", url, path)
	if err != nil {
		return future.Failed[*request.Response](err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return e.Execute(ctx, req)
}

func do(ctx context.Context, e Executor, method, url string, body interface{}, contentType string) *future.Future[*request.Response] {
	req, err := request.New(method, url, body)
	if err != nil {
		return future.Failed[*request.Response](err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return e.Execute(ctx, req)
}
