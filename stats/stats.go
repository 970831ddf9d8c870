// Package stats exposes compaction activity as Prometheus counters and
// gauges. Grounded on intel-cri-resource-manager's use of
// github.com/prometheus/client_golang for its own resource-manager
// metrics; this repo wires the same library rather than hand-rolling
// counters the way biscuit's stats.go does for its own kernel build.
package stats

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pageframe-os/compactd/compact"
)

// Collector_t bundles every metric one compactd process exports. A
// process registers exactly one against the default or a private
// registry at startup.
type Collector_t struct {
	PagesIsolated *prometheus.CounterVec
	PagesMigrated *prometheus.CounterVec
	PagesFailed   *prometheus.CounterVec
	Runs          *prometheus.CounterVec
	ZonesDeferred *prometheus.CounterVec
	RunDuration   *prometheus.HistogramVec
}

// NewCollector builds a Collector_t with every metric registered under
// the compactd namespace, labeled by zone name (and, for Runs, by
// terminal status).
func NewCollector(reg prometheus.Registerer) *Collector_t {
	c := &Collector_t{
		PagesIsolated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "compactd",
			Name:      "pages_isolated_total",
			Help:      "Pages isolated from a zone's LRU lists for migration.",
		}, []string{"zone"}),
		PagesMigrated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "compactd",
			Name:      "pages_migrated_total",
			Help:      "Pages successfully migrated to free a higher-order block.",
		}, []string{"zone"}),
		PagesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "compactd",
			Name:      "pages_failed_total",
			Help:      "Isolated pages put back after a failed migration attempt.",
		}, []string{"zone"}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "compactd",
			Name:      "runs_total",
			Help:      "Compaction runs by terminal status.",
		}, []string{"zone", "status"}),
		ZonesDeferred: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "compactd",
			Name:      "zones_deferred_total",
			Help:      "Compaction attempts skipped because the zone is in backoff.",
		}, []string{"zone"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "compactd",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of one zone compaction run.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"zone"}),
	}
	reg.MustRegister(c.PagesIsolated, c.PagesMigrated, c.PagesFailed, c.Runs, c.ZonesDeferred, c.RunDuration)
	return c
}

// Observe records one zone's result, including a Skipped outcome as a
// deferral rather than a run.
func (c *Collector_t) Observe(result compact.ZoneResult_t, seconds float64) {
	name := result.Zone.Name
	if result.Status == compact.Skipped {
		c.ZonesDeferred.WithLabelValues(name).Inc()
		return
	}
	c.PagesIsolated.WithLabelValues(name).Add(float64(result.PagesIsolated))
	c.PagesMigrated.WithLabelValues(name).Add(float64(result.PagesMigrated))
	c.PagesFailed.WithLabelValues(name).Add(float64(result.PagesFailed))
	c.Runs.WithLabelValues(name, result.Status.String()).Inc()
	c.RunDuration.WithLabelValues(name).Observe(seconds)
}
