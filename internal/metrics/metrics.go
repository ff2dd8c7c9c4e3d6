package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"spazi/pkg/spotlight"
)

// Recorder exports engine activity and dataset reloads as Prometheus series.
// It implements spotlight.Observer.
type Recorder struct {
	Transitions *prometheus.CounterVec
	Visible     prometheus.Gauge
	Hidden      prometheus.Gauge
	Masks       prometheus.Counter
	MaskCircles prometheus.Histogram
	Reloads     *prometheus.CounterVec
}

var _ spotlight.Observer = (*Recorder)(nil)

// New creates the series and registers them on reg. A nil reg uses the
// default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spotlight_transitions_total",
			Help: "Spotlight mode transitions",
		}, []string{"from", "to"}),
		Visible: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spotlight_visible_candidates",
			Help: "Candidates visible after the last filter pass",
		}),
		Hidden: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spotlight_hidden_candidates",
			Help: "Candidates hidden after the last filter pass",
		}),
		Masks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spotlight_mask_projections_total",
			Help: "Mask recomputations",
		}),
		MaskCircles: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "spotlight_mask_circles",
			Help:    "Circles per projected mask",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		Reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dataset_reloads_total",
			Help: "Dataset reloads by source and outcome",
		}, []string{"source", "status"}),
	}
	reg.MustRegister(r.Transitions, r.Visible, r.Hidden, r.Masks, r.MaskCircles, r.Reloads)
	return r
}

func (r *Recorder) ModeChanged(from, to spotlight.Kind) {
	r.Transitions.WithLabelValues(from.String(), to.String()).Inc()
}

func (r *Recorder) Filtered(visible, hidden int) {
	r.Visible.Set(float64(visible))
	r.Hidden.Set(float64(hidden))
}

func (r *Recorder) MaskProjected(circles int) {
	r.Masks.Inc()
	r.MaskCircles.Observe(float64(circles))
}

// Reloaded counts a dataset reload; err decides the status label.
func (r *Recorder) Reloaded(source string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.Reloads.WithLabelValues(source, status).Inc()
}

// NewRegistry returns a registry carrying the Go runtime and process
// collectors, for use with New and HandlerFor.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// HandlerFor serves g on /metrics.
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
