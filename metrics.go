package tweetstream

import "github.com/prometheus/client_golang/prometheus"

// Collector exports a stream's counters as Prometheus metrics, labeled by
// endpoint. Register it with the caller's registry:
//
//	s := tweetstream.NewFilterStream(ctx, creds, query)
//	prometheus.MustRegister(tweetstream.NewCollector(s))
//
// Collection reads the same snapshot Stats returns, so scrapes are safe
// while a pull is in flight.
type Collector struct {
	stream *Stream

	connected *prometheus.Desc
	startTime *prometheus.Desc
	records   *prometheus.Desc
	rate      *prometheus.Desc
}

// NewCollector creates a Collector for the stream.
func NewCollector(s *Stream) *Collector {
	labels := prometheus.Labels{"endpoint": s.Endpoint()}
	return &Collector{
		stream: s,
		connected: prometheus.NewDesc(
			"tweetstream_connected",
			"Whether the stream currently holds a live connection.",
			nil, labels),
		startTime: prometheus.NewDesc(
			"tweetstream_start_time_seconds",
			"Unix time of the stream's first successful connect. Zero before it.",
			nil, labels),
		records: prometheus.NewDesc(
			"tweetstream_records_total",
			"Records yielded by the stream.",
			nil, labels),
		rate: prometheus.NewDesc(
			"tweetstream_records_per_second",
			"Throughput over the last closed rate window.",
			nil, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.connected
	ch <- c.startTime
	ch <- c.records
	ch <- c.rate
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.stream.Stats()

	connected := 0.0
	if stats.Connected {
		connected = 1
	}
	ch <- prometheus.MustNewConstMetric(c.connected, prometheus.GaugeValue, connected)

	start := 0.0
	if !stats.StartTime.IsZero() {
		start = float64(stats.StartTime.Unix())
	}
	ch <- prometheus.MustNewConstMetric(c.startTime, prometheus.GaugeValue, start)

	ch <- prometheus.MustNewConstMetric(c.records, prometheus.CounterValue, float64(stats.Count))
	ch <- prometheus.MustNewConstMetric(c.rate, prometheus.GaugeValue, stats.Rate)
}

// Ensure Collector implements prometheus.Collector
var _ prometheus.Collector = (*Collector)(nil)
