package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

type collector struct {
	t     *Tracker
	avg   *prometheus.Desc
	count *prometheus.Desc
}

// Collector exports the average and observation count of every meter, labeled
// by key.
func (t *Tracker) Collector(namespace string) prometheus.Collector {
	return &collector{
		t: t,
		avg: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "meter", "avg"),
			"Running weighted average of the meter.",
			[]string{"key"}, nil),
		count: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "meter", "count"),
			"Total weight of observations recorded by the meter.",
			[]string{"key"}, nil),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.avg
	ch <- c.count
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	c.t.mu.Lock()
	defer c.t.mu.Unlock()
	for _, k := range c.t.keys {
		m := c.t.meters[k]
		ch <- prometheus.MustNewConstMetric(c.avg, prometheus.GaugeValue, m.Avg, k)
		ch <- prometheus.MustNewConstMetric(c.count, prometheus.GaugeValue, float64(m.Count), k)
	}
}
