// Package metrics records persistence-layer metrics for the tracker.
package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Recorder exposes Prometheus metrics for the storage driver. A nil
// *Recorder is a valid no-op recorder, so callers never have to branch.
type Recorder struct {
	loads        *prom.CounterVec
	saves        *prom.CounterVec
	clears       *prom.CounterVec
	fallbacks    *prom.CounterVec
	saveDuration prom.Histogram
}

// NewRecorder constructs and registers the persistence metrics on reg.
// A nil registry gets a private one, which keeps tests isolated.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		loads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "jobtracker",
			Name:      "storage_loads_total",
			Help:      "State loads by backend and result",
		}, []string{"backend", "result"}),
		saves: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "jobtracker",
			Name:      "storage_saves_total",
			Help:      "State saves by backend and result",
		}, []string{"backend", "result"}),
		clears: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "jobtracker",
			Name:      "storage_clears_total",
			Help:      "State clears by backend and result",
		}, []string{"backend", "result"}),
		fallbacks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "jobtracker",
			Name:      "storage_fallbacks_total",
			Help:      "Operations redirected from the primary to the fallback backend",
		}, []string{"op"}),
		saveDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "jobtracker",
			Name:      "storage_save_duration_seconds",
			Help:      "Duration of state save operations",
			Buckets:   prom.DefBuckets,
		}),
	}
	reg.MustRegister(r.loads, r.saves, r.clears, r.fallbacks, r.saveDuration)
	return r
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Load records one load attempt against a backend.
func (r *Recorder) Load(backend string, err error) {
	if r == nil {
		return
	}
	r.loads.WithLabelValues(backend, result(err)).Inc()
}

// Save records one save attempt against a backend.
func (r *Recorder) Save(backend string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.saves.WithLabelValues(backend, result(err)).Inc()
	r.saveDuration.Observe(elapsed.Seconds())
}

// Clear records one clear attempt against a backend.
func (r *Recorder) Clear(backend string, err error) {
	if r == nil {
		return
	}
	r.clears.WithLabelValues(backend, result(err)).Inc()
}

// Fallback records a primary-backend failure redirected to the fallback.
func (r *Recorder) Fallback(op string) {
	if r == nil {
		return
	}
	r.fallbacks.WithLabelValues(op).Inc()
}
