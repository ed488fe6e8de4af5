package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lintang-b-s/navigatorx-lastmile/pkg"
	da "github.com/lintang-b-s/navigatorx-lastmile/pkg/datastructure"
)

// BatchCollector bundles the Prometheus metrics of a last-mile batch run.
type BatchCollector struct {
	gatherer prometheus.Gatherer

	Requests         *prometheus.CounterVec
	RequestDurations *prometheus.HistogramVec
	BatchDurations   prometheus.Histogram
	RouteLength      *prometheus.CounterVec
	DissolvedLength  *prometheus.GaugeVec
	DissolvedGroups  prometheus.Gauge
}

// NewBatchCollector registers the batch metrics against reg, defaulting to the
// global Prometheus registry when nil. registering twice on the same registry
// returns the existing collectors.
func NewBatchCollector(reg prometheus.Registerer) (*BatchCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lastmile_requests_total",
		Help: "Total number of processed last-mile requests, labeled by terminal status.",
	}, []string{"status"}), "lastmile_requests_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lastmile_request_duration_seconds",
		Help:    "Per request latency (snap, route, classify) in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
	}, []string{"status"}), "lastmile_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	batch, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "lastmile_batch_duration_seconds",
		Help:    "Whole batch latency in seconds, dissolve included.",
		Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	}), "lastmile_batch_duration_seconds")
	if err != nil {
		return nil, err
	}

	routeLength, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lastmile_route_length_meters_total",
		Help: "Sum of classified route length in metres before dissolve, labeled by tag.",
	}, []string{"tag"}), "lastmile_route_length_meters_total")
	if err != nil {
		return nil, err
	}

	dissolved, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lastmile_dissolved_length_meters",
		Help: "Deduplicated length in metres of the last batch, labeled by tag.",
	}, []string{"tag"}), "lastmile_dissolved_length_meters")
	if err != nil {
		return nil, err
	}

	groups, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lastmile_dissolved_groups",
		Help: "Number of dissolved groups produced by the last batch.",
	}), "lastmile_dissolved_groups")
	if err != nil {
		return nil, err
	}

	return &BatchCollector{
		gatherer:         gatherer,
		Requests:         requests,
		RequestDurations: durations,
		BatchDurations:   batch,
		RouteLength:      routeLength,
		DissolvedLength:  dissolved,
		DissolvedGroups:  groups,
	}, nil
}

func (c *BatchCollector) Gatherer() prometheus.Gatherer {
	if c == nil || c.gatherer == nil {
		return prometheus.DefaultGatherer
	}
	return c.gatherer
}

// ObserveRequest records the outcome of a single request. nil receivers are no-ops.
func (c *BatchCollector) ObserveRequest(result da.RouteResult, elapsed time.Duration) {
	if c == nil {
		return
	}
	status := result.Status.String()
	c.Requests.WithLabelValues(status).Inc()
	c.RequestDurations.WithLabelValues(status).Observe(elapsed.Seconds())
	if !result.IsSolved() {
		return
	}
	for _, tag := range pkg.SegmentTags {
		c.RouteLength.WithLabelValues(tag.String()).Add(result.TagLength(tag))
	}
}

// ObserveBatch records the batch totals once dissolve is done.
func (c *BatchCollector) ObserveBatch(summary da.BatchSummary, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.BatchDurations.Observe(elapsed.Seconds())
	c.DissolvedLength.WithLabelValues(pkg.OVERLAP.String()).Set(summary.OverlapDistance)
	c.DissolvedLength.WithLabelValues(pkg.NEW_BUILD.String()).Set(summary.NewBuildDistance)
	c.DissolvedGroups.Set(float64(summary.GroupsAfterDissolve))
}

// WriteToTextfile dumps every metric of the collector's gatherer in the text exposition format.
func (c *BatchCollector) WriteToTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, c.Gatherer())
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
