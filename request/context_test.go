// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContext(t *testing.T) {
	assert.PanicsWithValue(t, "httpcore/request: nil context", func() {
		NewContext(nil, nil)
	})
	r := &Request{Method: "GET"}
	c1 := NewContext(context.Background(), r)
	c2 := NewContext(context.Background(), r)
	assert.NotEmpty(t, c1.ID())
	assert.NotEqual(t, c1.ID(), c2.ID())
	assert.Same(t, r, c1.Request())
	assert.Equal(t, context.Background(), c1.Context())
	assert.False(t, c1.Start().IsZero())
	assert.GreaterOrEqual(t, int64(c1.Duration()), int64(0))
}

func TestContext_Attr(t *testing.T) {
	c := NewContext(context.Background(), nil)
	assert.Nil(t, c.Attr(MaxRetries))
	assert.Equal(t, 3, c.IntAttr(MaxRetries, 3))
	c.SetAttr(MaxRetries, 5)
	assert.Equal(t, 5, c.IntAttr(MaxRetries, 3))
	assert.Equal(t, 5, c.RemoveAttr(MaxRetries))
	assert.Nil(t, c.RemoveAttr(MaxRetries))
	assert.Equal(t, -1, c.IntAttr(MaxRetries, -1))

	c.SetAttr(RetriedCount, "corrupt")
	assert.Panics(t, func() { c.IntAttr(RetriedCount, -1) })

	assert.False(t, c.BoolAttr(ExpectContinueEnabled))
	c.SetAttr(ExpectContinueEnabled, true)
	assert.True(t, c.BoolAttr(ExpectContinueEnabled))
	c.SetAttr(ExpectContinueEnabled, "yes")
	assert.False(t, c.BoolAttr(ExpectContinueEnabled))
}

func TestContext_Continue(t *testing.T) {
	c := NewContext(context.Background(), nil)
	assert.False(t, c.Continue())
	n := 0
	c.SetAttr(ExpectContinueCallback, ContinueFunc(func() { n++ }))
	assert.True(t, c.Continue())
	assert.False(t, c.Continue())
	assert.Equal(t, 1, n)
	assert.Nil(t, c.Attr(ExpectContinueCallback))
}
