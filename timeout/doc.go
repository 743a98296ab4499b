// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines flexible policies for setting attempt
// timeouts during an execution, including on retries, and the pipeline
// stage which enforces them. A generic interface for timeout policies
// is provided, Policy, along with several useful policy generating
// functions and built-in policies.
package timeout
