package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/handlog/internal/handlog"
)

var (
	parsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "handlog",
		Name:      "parses_total",
		Help:      "Log parses by outcome (ok, not_found, error).",
	}, []string{"outcome"})
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "handlog",
		Name:      "cache_hits_total",
		Help:      "Loads answered from the parsed-log cache.",
	})
	recordsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "handlog",
		Name:      "records_extracted_total",
		Help:      "Action records produced by fresh parses.",
	})
	droppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "handlog",
		Name:      "dropped_total",
		Help:      "Prompts and decisions skipped during parsing, by reason.",
	}, []string{"reason"})
	parseSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "handlog",
		Name:      "parse_duration_seconds",
		Help:      "Time spent reading and scanning a log file.",
		Buckets:   prometheus.DefBuckets,
	})
)

// ObserveParse records a fresh parse that succeeded.
func ObserveParse(stats handlog.Stats, seconds float64) {
	parsesTotal.WithLabelValues("ok").Inc()
	recordsTotal.Add(float64(stats.Records))
	droppedTotal.WithLabelValues("orphan_decision").Add(float64(stats.OrphanDecisions))
	droppedTotal.WithLabelValues("malformed_prompt").Add(float64(stats.MalformedPrompts))
	droppedTotal.WithLabelValues("incomplete_block").Add(float64(stats.IncompleteBlocks))
	parseSeconds.Observe(seconds)
}

// ObserveNotFound records a load of a missing log file.
func ObserveNotFound() {
	parsesTotal.WithLabelValues("not_found").Inc()
}

// ObserveError records a parse that aborted.
func ObserveError() {
	parsesTotal.WithLabelValues("error").Inc()
}

// ObserveCacheHit records a load served from cache.
func ObserveCacheHit() {
	cacheHits.Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
