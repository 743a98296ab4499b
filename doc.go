// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package httpcore provides the execution core of an asynchronous HTTP
client: a pipeline of interceptors, with retry and per-attempt timeout
stages, ending in a transport stage which writes requests to pooled
connections and resolves results from the responses they read.

Create a Client around a transport.Pool to begin making requests.

	client := &httpcore.Client{Pool: pool}
	resp, err := client.Execute(ctx, req).Result()
	...
	result := httpcore.Get(ctx, client, "https://www.example.com")
	...

Or configure one from a TOML file using package config:

	cfg, err := config.Load("client.toml")
	...
	client, err := httpcore.NewClient(cfg, pool)

For control over the client's retry decisions and timing, set a retry
predicate and backoff from package retry:

	client := &httpcore.Client{
		Pool:           pool,
		RetryPredicate: retry.DefaultPredicate.And(retry.Before(30*time.Second)),
		Backoff:        retry.NewExpBackoff(250*time.Millisecond, 5*time.Second, time.Now()),
		MaxRetries:     3,
	}

For control over individual attempt timeouts, set a timeout policy from
package timeout:

	client := &httpcore.Client{
		Pool:          pool,
		TimeoutPolicy: timeout.Fixed(10 * time.Second),
	}

To add custom pipeline stages, implement exec.Interceptor and list the
stages in Interceptors. Stages ordered after timeout.Order run once per
attempt.

To hook into the details of the client's execution logic, install a
handler into the appropriate handler chain:

	handlers := &httpcore.HandlerGroup{}
	handlers.PushBack(httpcore.BeforeAttempt, httpcore.HandlerFunc(
		func(_ httpcore.Event, ctx *request.Context) {
			log.Printf("Attempt %d of %s", ctx.IntAttr(request.RetriedCount, -1)+2, ctx.Request())
		}),
	)
	client := &httpcore.Client{
		Pool:     pool,
		Handlers: handlers,
	}

Package httpcore also provides an interface for the client's single
method (Executor), and utility functions for working with an Executor
(Get, Head, Post, PostForm, and PostFile).
*/
package httpcore
