// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"strings"
	"testing"

	"github.com/gogama/httpcore/address"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	a1 = address.Address{Host: "example.com", Port: 443}
	a2 = address.Address{Host: "127.0.0.1", Port: 8080}
)

func provider() ProviderFunc {
	return func() map[address.Address]PoolMetric {
		return map[address.Address]PoolMetric{
			a1: {MaxSize: 10, Active: 3, Idle: 2, PendingAcquire: 1, MaxPendingAcquire: 100},
			a2: {MaxSize: 4, Active: 4},
		}
	}
}

type getter struct {
	ProviderFunc
	calls int
}

func (g *getter) Get(addr address.Address) (PoolMetric, bool) {
	g.calls++
	if addr == a1 {
		return PoolMetric{MaxSize: 99}, true
	}
	return PoolMetric{}, false
}

func TestGet(t *testing.T) {
	t.Run("derived from All", func(t *testing.T) {
		m, ok := Get(provider(), a1)
		assert.True(t, ok)
		assert.Equal(t, 3, m.Active)
		_, ok = Get(provider(), address.Address{Host: "nowhere", Port: 80})
		assert.False(t, ok)
	})
	t.Run("getter", func(t *testing.T) {
		g := &getter{ProviderFunc: provider()}
		m, ok := Get(g, a1)
		assert.True(t, ok)
		assert.Equal(t, 99, m.MaxSize)
		assert.Equal(t, 1, g.calls)
	})
}

func TestCollector(t *testing.T) {
	assert.PanicsWithValue(t, "httpcore/metrics: nil provider", func() {
		NewCollector(nil, "x")
	})

	c := NewCollector(provider(), "httpcore")
	assert.Equal(t, 10, testutil.CollectAndCount(c))
	expected := `
# HELP httpcore_pool_active Number of connections currently acquired.
# TYPE httpcore_pool_active gauge
httpcore_pool_active{address="127.0.0.1:8080"} 4
httpcore_pool_active{address="example.com:443"} 3
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "httpcore_pool_active"))
}
