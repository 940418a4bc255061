// Package metrics exports search statistics of scheduling runs in the
// Prometheus exposition format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vk/sdfsched/internal/sdf"
)

const namespace = "sdfsched"

// Outcome labels of the schedules_total counter.
const (
	OutcomeScheduled     = "scheduled"
	OutcomeUnschedulable = "unschedulable"
	OutcomeError         = "error"
)

// Registry holds the scheduler metrics. Every Registry owns its own
// prometheus registry so independent runs never share state.
type Registry struct {
	reg *prometheus.Registry

	schedules *prometheus.CounterVec
	value     *prometheus.GaugeVec
	firings   *prometheus.GaugeVec
	generated *prometheus.CounterVec
	expanded  *prometheus.CounterVec
	pruned    *prometheus.CounterVec
	frontier  *prometheus.GaugeVec
	duration  *prometheus.HistogramVec
}

// NewRegistry creates and registers all metrics.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		schedules: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedules_total",
			Help:      "Count of scheduling attempts per graph, by outcome.",
		}, []string{"graph", "criterion", "outcome"}),
		value: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "schedule_value",
			Help:      "Objective value of the last schedule found for a graph.",
		}, []string{"graph", "criterion"}),
		firings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "schedule_firings",
			Help:      "Number of single firings in the last schedule found for a graph.",
		}, []string{"graph"}),
		generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "states_generated_total",
			Help:      "Count of states added to the search frontier.",
		}, []string{"graph"}),
		expanded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "states_expanded_total",
			Help:      "Count of states removed from the frontier and expanded.",
		}, []string{"graph"}),
		pruned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "states_pruned_total",
			Help:      "Count of states discarded because an equal state was already closed.",
		}, []string{"graph"}),
		frontier: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "frontier_peak",
			Help:      "Largest frontier size reached by the last search for a graph.",
		}, []string{"graph"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Time spent searching for a schedule.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"criterion"}),
	}
	r.reg.MustRegister(r.schedules, r.value, r.firings, r.generated, r.expanded, r.pruned, r.frontier, r.duration)
	return r
}

// ObserveSchedule records a successful search.
func (r *Registry) ObserveSchedule(graph string, sched *sdf.Schedule) {
	criterion := sched.Criterion.String()
	r.schedules.WithLabelValues(graph, criterion, OutcomeScheduled).Inc()
	r.value.WithLabelValues(graph, criterion).Set(float64(sched.Value))
	r.firings.WithLabelValues(graph).Set(float64(sched.Len()))
	r.generated.WithLabelValues(graph).Add(float64(sched.Stats.Generated))
	r.expanded.WithLabelValues(graph).Add(float64(sched.Stats.Expanded))
	r.pruned.WithLabelValues(graph).Add(float64(sched.Stats.Pruned))
	r.frontier.WithLabelValues(graph).Set(float64(sched.Stats.PeakFrontier))
	r.duration.WithLabelValues(criterion).Observe(sched.Elapsed.Seconds())
}

// ObserveFailure records a graph that could not be scheduled.
func (r *Registry) ObserveFailure(graph string, criterion sdf.Criterion, unschedulable bool) {
	outcome := OutcomeError
	if unschedulable {
		outcome = OutcomeUnschedulable
	}
	r.schedules.WithLabelValues(graph, criterion.String(), outcome).Inc()
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// WriteTextfile writes all metrics to filename in the text exposition
// format, replacing the file atomically.
func (r *Registry) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, r.reg)
}

// Handler serves the metrics over HTTP.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
