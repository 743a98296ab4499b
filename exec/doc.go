// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package exec provides the chain-of-responsibility pipeline through
// which every request attempt flows: an ordered list of Interceptor
// stages ending in a Terminal stage that talks to the transport.
package exec
