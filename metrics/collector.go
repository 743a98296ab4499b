// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type collector struct {
	provider Provider

	maxSize           *prometheus.Desc
	active            *prometheus.Desc
	idle              *prometheus.Desc
	pendingAcquire    *prometheus.Desc
	maxPendingAcquire *prometheus.Desc
}

// NewCollector returns a prometheus.Collector reporting the pools of p
// as gauges labelled with the pool address. The snapshot is taken from
// p.All on every scrape.
func NewCollector(p Provider, namespace string) prometheus.Collector {
	if p == nil {
		panic("httpcore/metrics: nil provider")
	}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pool", name),
			help,
			[]string{"address"}, nil,
		)
	}
	return &collector{
		provider:          p,
		maxSize:           desc("max_size", "Maximum number of connections in the pool."),
		active:            desc("active", "Number of connections currently acquired."),
		idle:              desc("idle", "Number of idle connections."),
		pendingAcquire:    desc("pending_acquire", "Number of callers waiting for a connection."),
		maxPendingAcquire: desc("max_pending_acquire", "Maximum number of callers allowed to wait for a connection."),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.maxSize
	ch <- c.active
	ch <- c.idle
	ch <- c.pendingAcquire
	ch <- c.maxPendingAcquire
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	for addr, m := range c.provider.All() {
		label := addr.String()
		ch <- prometheus.MustNewConstMetric(c.maxSize, prometheus.GaugeValue, float64(m.MaxSize), label)
		ch <- prometheus.MustNewConstMetric(c.active, prometheus.GaugeValue, float64(m.Active), label)
		ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(m.Idle), label)
		ch <- prometheus.MustNewConstMetric(c.pendingAcquire, prometheus.GaugeValue, float64(m.PendingAcquire), label)
		ch <- prometheus.MustNewConstMetric(c.maxPendingAcquire, prometheus.GaugeValue, float64(m.MaxPendingAcquire), label)
	}
}
