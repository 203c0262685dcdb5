// Package metrics exposes pool statistics as Prometheus metrics.
//
// A Collector wraps one pool and reads its counters at scrape time, so
// the pool's hot path stays free of metric updates. Register one
// collector per pool, distinguished by the pool label:
//
//	p := pool.NewPrefilled[*bytes.Buffer](256, alloc)
//	prometheus.MustRegister(metrics.NewCollector("frame_buffers", p))
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ajitpratap0/poolkit/pkg/pool"
)

// Source is the view of a pool the collector reads. Pool, SharedPool,
// LocalPool and SharedLocalPool all satisfy it; the counters behind
// Stats are atomic, so scraping is safe even for the single-goroutine
// pools.
type Source interface {
	Stats() pool.Stats
	Len() int
	Cap() int
}

// Collector implements prometheus.Collector for one pool.
type Collector struct {
	source Source

	allocated *prometheus.Desc
	hits      *prometheus.Desc
	misses    *prometheus.Desc
	returned  *prometheus.Desc
	discarded *prometheus.Desc
	inUse     *prometheus.Desc
	stored    *prometheus.Desc
	capacity  *prometheus.Desc
}

// NewCollector creates a collector for one pool. The name becomes the
// pool label on every metric, so multiple pools can share a registry.
func NewCollector(name string, src Source) *Collector {
	labels := prometheus.Labels{"pool": name}
	return &Collector{
		source: src,
		allocated: prometheus.NewDesc(
			"poolkit_objects_allocated_total",
			"Objects manufactured by the allocator.",
			nil, labels),
		hits: prometheus.NewDesc(
			"poolkit_store_hits_total",
			"Gets served from the store.",
			nil, labels),
		misses: prometheus.NewDesc(
			"poolkit_store_misses_total",
			"Gets that had to allocate.",
			nil, labels),
		returned: prometheus.NewDesc(
			"poolkit_objects_returned_total",
			"Objects pushed back into the store on release.",
			nil, labels),
		discarded: prometheus.NewDesc(
			"poolkit_objects_discarded_total",
			"Objects dropped on release by a full store or failed validation.",
			nil, labels),
		inUse: prometheus.NewDesc(
			"poolkit_objects_in_use",
			"Objects currently held by live guards.",
			nil, labels),
		stored: prometheus.NewDesc(
			"poolkit_store_size",
			"Objects currently available in the store.",
			nil, labels),
		capacity: prometheus.NewDesc(
			"poolkit_store_capacity",
			"Maximum objects the store retains.",
			nil, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocated
	ch <- c.hits
	ch <- c.misses
	ch <- c.returned
	ch <- c.discarded
	ch <- c.inUse
	ch <- c.stored
	ch <- c.capacity
}

// Collect implements prometheus.Collector. It snapshots the pool's
// counters at scrape time.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.allocated, prometheus.CounterValue, float64(s.Allocated))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.returned, prometheus.CounterValue, float64(s.Returned))
	ch <- prometheus.MustNewConstMetric(c.discarded, prometheus.CounterValue, float64(s.Discarded))
	ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(s.InUse))
	ch <- prometheus.MustNewConstMetric(c.stored, prometheus.GaugeValue, float64(c.source.Len()))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(c.source.Cap()))
}
