// File: metrics/collector.go

// Package metrics exposes store occupancy as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	sandlodb "github.com/AndreaPrestia/sandlo-db"
)

// Collector reads DB.Stats on every scrape. It holds no state of its own,
// so registering it with any prometheus.Registerer is all the wiring a host
// needs.
type Collector struct {
	db *sandlodb.DB

	entities  *prometheus.Desc
	types     *prometheus.Desc
	bytes     *prometheus.Desc
	maxBytes  *prometheus.Desc
	evictions *prometheus.Desc
}

// NewCollector builds a collector for db.
func NewCollector(db *sandlodb.DB) *Collector {
	return &Collector{
		db: db,
		entities: prometheus.NewDesc("sandlodb_entities",
			"Records currently stored across all types.", nil, nil),
		types: prometheus.NewDesc("sandlodb_types",
			"Types with at least one stored record.", nil, nil),
		bytes: prometheus.NewDesc("sandlodb_size_bytes",
			"Summed serialized size of all stored records.", nil, nil),
		maxBytes: prometheus.NewDesc("sandlodb_max_memory_bytes",
			"Configured memory budget in bytes, zero when unbounded.", nil, nil),
		evictions: prometheus.NewDesc("sandlodb_evictions_total",
			"Records removed by the size sweep since the store was built.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entities
	ch <- c.types
	ch <- c.bytes
	ch <- c.maxBytes
	ch <- c.evictions
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.db.Stats()
	ch <- prometheus.MustNewConstMetric(c.entities, prometheus.GaugeValue, float64(st.Entities))
	ch <- prometheus.MustNewConstMetric(c.types, prometheus.GaugeValue, float64(st.Types))
	ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.GaugeValue, float64(st.Bytes))
	ch <- prometheus.MustNewConstMetric(c.maxBytes, prometheus.GaugeValue, st.MaxBytes)
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(st.Evictions))
}
