// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics exposes read-only metrics of the connection pools a
// client runs on. The metrics are for observability only; nothing in
// the execution pipeline makes decisions based on them.
package metrics

import (
	"github.com/gogama/httpcore/address"
)

// A PoolMetric is a snapshot of the connection pool for one address.
type PoolMetric struct {
	// MaxSize is the maximum number of connections in the pool.
	MaxSize int
	// Active is the number of connections currently acquired.
	Active int
	// Idle is the number of connections waiting to be acquired.
	Idle int
	// PendingAcquire is the number of callers waiting for a connection.
	PendingAcquire int
	// MaxPendingAcquire is the limit on PendingAcquire.
	MaxPendingAcquire int
}

// A Provider reports the metrics of every pool it manages.
//
// Implementations of Provider must be safe for concurrent use by
// multiple goroutines.
type Provider interface {
	All() map[address.Address]PoolMetric
}

// A Getter is a Provider which can look up one address more cheaply
// than by computing All.
type Getter interface {
	Provider
	Get(addr address.Address) (PoolMetric, bool)
}

// The ProviderFunc type is an adapter to allow the use of ordinary
// functions as metric providers.
type ProviderFunc func() map[address.Address]PoolMetric

// All returns f().
func (f ProviderFunc) All() map[address.Address]PoolMetric {
	return f()
}

// Get returns the metric of the pool for addr. If p implements Getter,
// its Get method is used; otherwise the metric is looked up in p.All().
func Get(p Provider, addr address.Address) (PoolMetric, bool) {
	if g, ok := p.(Getter); ok {
		return g.Get(addr)
	}
	m, ok := p.All()[addr]
	return m, ok
}
