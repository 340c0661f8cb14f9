// Package metrics counts what a recon run did and can dump the counts in the
// node-exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/pfrederiksen/venue-recon/internal/venue"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "venue_recon"

// Recorder holds the run's collectors on a private registry
type Recorder struct {
	registry   *prometheus.Registry
	probes     *prometheus.CounterVec
	errors     *prometheus.CounterVec
	duration   prometheus.Histogram
	excluded   *prometheus.CounterVec
	configured prometheus.Gauge
}

// New creates a Recorder with every collector registered
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Probes completed, by tier guess.",
		}, []string{"tier"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_errors_total",
			Help:      "Probes that recorded an error, by kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probe_duration_seconds",
			Help:      "Wall time of a single probe including subpage checks.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}),
		excluded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_excluded_total",
			Help:      "Directory entries dropped before probing, by reason.",
		}, []string{"reason"}),
		configured: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "configured_domains",
			Help:      "Domains already covered by scraper source configs.",
		}),
	}

	r.registry.MustRegister(r.probes, r.errors, r.duration, r.excluded, r.configured)
	return r
}

// ObserveResult records one completed probe
func (r *Recorder) ObserveResult(res venue.ProbeResult) {
	r.probes.WithLabelValues(string(res.Tier)).Inc()
	if res.ErrorKind != venue.ErrorNone {
		r.errors.WithLabelValues(string(res.ErrorKind)).Inc()
	}
	r.duration.Observe(res.Duration.Seconds())
}

// ObserveExcluded records entries dropped for reason
func (r *Recorder) ObserveExcluded(reason string, n int) {
	if n <= 0 {
		return
	}
	r.excluded.WithLabelValues(reason).Add(float64(n))
}

// SetConfiguredDomains records the registry size
func (r *Recorder) SetConfiguredDomains(n int) {
	r.configured.Set(float64(n))
}

// WriteTextfile writes every metric to path atomically
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
