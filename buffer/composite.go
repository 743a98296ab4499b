// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package buffer

// A Composite is a logical buffer made of component buffers held by
// reference. Adding a component never copies it, except when the
// component count would exceed the maximum, at which point the existing
// components are consolidated into one.
//
// A Composite is not safe for concurrent use.
type Composite struct {
	alloc    Allocator
	max      int
	parts    []*Buffer
	size     int
	released bool
}

func newComposite(alloc Allocator, max int) *Composite {
	if max < 2 {
		max = 2
	}
	return &Composite{alloc: alloc, max: max}
}

// Add appends b as the last component. The Composite takes ownership of
// one reference to b: callers that keep using b must Retain it first.
func (c *Composite) Add(b *Buffer) {
	if c.released {
		panic("httpcore/buffer: add to released composite")
	}
	if len(c.parts) == c.max {
		c.consolidate()
	}
	c.parts = append(c.parts, b)
	c.size += b.Len()
}

func (c *Composite) consolidate() {
	merged := c.alloc.Allocate(c.size)
	c.copyTo(merged.Bytes())
	for _, p := range c.parts {
		p.Release()
	}
	c.parts = append(c.parts[:0], merged)
}

func (c *Composite) copyTo(dst []byte) int {
	n := 0
	for _, p := range c.parts {
		n += copy(dst[n:], p.Bytes())
	}
	return n
}

// Len returns the total number of bytes across all components.
func (c *Composite) Len() int {
	return c.size
}

// NumComponents returns the number of component buffers.
func (c *Composite) NumComponents() int {
	return len(c.parts)
}

// Bytes returns a newly-allocated contiguous copy of the contents. The
// copy stays valid after the Composite is released.
func (c *Composite) Bytes() []byte {
	out := make([]byte, c.size)
	c.copyTo(out)
	return out
}

// Release releases every component. Releasing a Composite twice panics.
func (c *Composite) Release() {
	if c.released {
		panic("httpcore/buffer: composite released twice")
	}
	c.released = true
	for _, p := range c.parts {
		p.Release()
	}
	c.parts = nil
	c.size = 0
}

// Released reports whether Release has been called.
func (c *Composite) Released() bool {
	return c.released
}
