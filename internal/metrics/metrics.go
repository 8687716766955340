// Package metrics holds the Prometheus metrics of recipe runs. They are
// registered on Registry and written out with WriteFile after a run.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goplus/cppkg/recipe"
)

// Registry holds every cppkg metric.
var Registry = prometheus.NewRegistry()

var (
	stepDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cppkg_step_duration_seconds",
			Help:    "Duration of recipe lifecycle steps in seconds",
			Buckets: []float64{0.01, 0.1, 1, 5, 30, 120, 600, 1800},
		},
		[]string{"step"},
	)
	stepFailures = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "cppkg_step_failures_total",
			Help: "Total number of failed lifecycle steps by error kind",
		},
		[]string{"step", "kind"},
	)
	cacheHits = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cppkg_cache_hits_total",
			Help: "Total number of builds served from the package cache",
		},
	)
	cacheMisses = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Name: "cppkg_cache_misses_total",
			Help: "Total number of builds not found in the package cache",
		},
	)
)

// ObserveStep records the duration of a lifecycle step.
func ObserveStep(step string, d time.Duration) {
	stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

// StepFailed counts a failed step under the kind of err.
func StepFailed(step string, err error) {
	stepFailures.WithLabelValues(step, Kind(err)).Inc()
}

// CacheHit counts a build skipped because its package was cached.
func CacheHit() { cacheHits.Inc() }

// CacheMiss counts a build that had to run.
func CacheMiss() { cacheMisses.Inc() }

// Kind classifies err as "configuration", "tool", "artifact" or "other".
func Kind(err error) string {
	switch {
	case errors.Is(err, recipe.ErrInvalidConfiguration):
		return "configuration"
	case errors.Is(err, recipe.ErrToolFailed):
		return "tool"
	case errors.Is(err, recipe.ErrArtifactMissing):
		return "artifact"
	}
	return "other"
}

// WriteFile writes the metrics in the Prometheus text format to filename.
func WriteFile(filename string) error {
	return prometheus.WriteToTextfile(filename, Registry)
}
