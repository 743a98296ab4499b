// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package future provides Future, the one-shot asynchronous result used
// throughout the execution pipeline: interceptors return it, body
// writers use it as their completion signal, and response handles
// resolve it.
package future
