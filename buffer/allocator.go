// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffer

import (
	pool "github.com/libp2p/go-buffer-pool"
)

// An Allocator produces buffers. Transports deliver response fragments
// in buffers from an Allocator, and handles compose fragments with it.
//
// Implementations of Allocator must be safe for concurrent use by
// multiple goroutines.
type Allocator interface {
	// Allocate returns a Buffer of length n holding one reference.
	Allocate(n int) *Buffer
	// Composite returns an empty Composite which consolidates its
	// components once more than max have been added.
	Composite(max int) *Composite
}

// Pooled is an Allocator which recycles released buffers through the
// global go-buffer-pool pool.
var Pooled Allocator = pooled{}

// Heap is an Allocator which allocates plain slices and leaves released
// buffers to the garbage collector.
var Heap Allocator = heap{}

type pooled struct{}

func (pooled) Allocate(n int) *Buffer {
	return &Buffer{b: pool.Get(n), refs: 1, free: pool.Put}
}

func (a pooled) Composite(max int) *Composite {
	return newComposite(a, max)
}

type heap struct{}

func (heap) Allocate(n int) *Buffer {
	return Wrap(make([]byte, n))
}

func (a heap) Composite(max int) *Composite {
	return newComposite(a, max)
}
