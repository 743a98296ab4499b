// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"testing"

	"github.com/gogama/httpcore/buffer"
	"github.com/gogama/httpcore/future"
	"github.com/gogama/httpcore/handle"
	"github.com/gogama/httpcore/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	h := handle.NewBuffered(nil, nil, future.New[*request.Response](), buffer.Heap)
	for _, tc := range []struct {
		multiplexed bool
		ids         []int32
	}{
		{false, []int32{1, 2, 3}},
		{true, []int32{1, 3, 5}},
	} {
		r := NewRegistry(tc.multiplexed)
		for _, want := range tc.ids {
			id, err := r.Put(h)
			require.NoError(t, err)
			assert.Equal(t, want, id)
		}
	}
}
