// Package metrics owns the process-local registry of named instruments and
// the constant label set shared by every metric this process exports.
//
// The registry is built once at start-up and handed to the components that
// produce measurements; all update methods are safe for concurrent use.
package metrics

import (
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/isabella232/manta-rebalancer/pkg/config"
)

// Well-known metric keys. The set of keys is closed at start-up: Register
// creates exactly one instrument per key and an instrument is never replaced
// for the lifetime of the process.
const (
	// RequestCount counts requests handled, partitioned by request type.
	RequestCount = "request_count"
	// ObjectCount counts objects processed, partitioned by object type.
	ObjectCount = "object_count"
	// ErrorCount counts errors encountered, partitioned by error type.
	ErrorCount = "error_count"
	// BytesCount counts bytes transferred.
	BytesCount = "bytes_count"
	// AssignmentTime tracks the distribution of assignment completion times.
	AssignmentTime = "assignment_time"
)

// totalBucket is the reserved counter-vector bucket that aggregates across
// all named buckets of a key.
const totalBucket = "total"

// kind tags the variant held by an instrument. Every update operation
// switches on the tag; applying an operation to the wrong variant is a
// logged no-op rather than a polymorphic dispatch.
type kind int

const (
	kindCounter kind = iota
	kindCounterVec
	kindGauge
	kindHistogram
)

func (k kind) String() string {
	switch k {
	case kindCounter:
		return "counter"
	case kindCounterVec:
		return "counter_vec"
	case kindGauge:
		return "gauge"
	case kindHistogram:
		return "histogram"
	default:
		return "unknown"
	}
}

// instrument is the closed sum over the supported Prometheus instrument
// variants. Exactly one field matching the kind tag is set.
type instrument struct {
	kind       kind
	counter    prometheus.Counter
	counterVec *prometheus.CounterVec
	gauge      prometheus.Gauge
	histogram  prometheus.Histogram
}

// Registry maps well-known metric keys to their instruments. The map is
// populated during start-up and read-only afterwards; the instruments
// themselves handle their own synchronization, so update methods may be
// called from any number of goroutines without external locking.
type Registry struct {
	reg         prometheus.Registerer
	instruments map[string]instrument
	labels      prometheus.Labels
	log         *logrus.Logger
}

// Register builds the registry from cfg against the default Prometheus
// registerer, so that the exporter's process-wide gather picks up its
// instruments. Failure to register any instrument is a start-up error.
func Register(cfg config.Metrics) (*Registry, error) {
	return RegisterWith(prometheus.DefaultRegisterer, cfg, logrus.StandardLogger())
}

// RegisterWith is Register against an explicit registerer and logger.
func RegisterWith(reg prometheus.Registerer, cfg config.Metrics, log *logrus.Logger) (*Registry, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	// The zonename label is best effort: a host we cannot name still has to
	// export metrics.
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	labels := prometheus.Labels{
		"service":    cfg.Service,
		"server":     cfg.Server,
		"datacenter": cfg.Datacenter,
		"zonename":   hostname,
	}
	publishConstLabels(labels)

	r := &Registry{
		reg:         reg,
		instruments: make(map[string]instrument),
		labels:      labels,
		log:         log,
	}

	// The request counter maintains a list of requests received, broken down
	// by the type of request (e.g. req=GET, req=POST).
	if err := r.NewCounterVec(RequestCount, "Total number of requests handled.", "req"); err != nil {
		return nil, err
	}

	// Objects processed, successfully or not, broken down by type.
	if err := r.NewCounterVec(ObjectCount, "Total number of objects processed.", "type"); err != nil {
		return nil, err
	}

	// Errors are partitioned by error type. Callers should stick to a small,
	// known set of bucket names and lump everything else into a generic one
	// to keep the cardinality bounded.
	if err := r.NewCounterVec(ErrorCount, "Errors encountered.", "error"); err != nil {
		return nil, err
	}

	if err := r.NewCounter(BytesCount, "Bytes transferred."); err != nil {
		return nil, err
	}

	if err := r.NewHistogram(AssignmentTime, "Assignment completion time", nil); err != nil {
		return nil, err
	}

	return r, nil
}

// Labels returns the constant label set attached to this registry's
// instruments.
func (r *Registry) Labels() prometheus.Labels {
	cp := make(prometheus.Labels, len(r.labels))
	for k, v := range r.labels {
		cp[k] = v
	}
	return cp
}

// NewCounter creates and registers a plain counter under key, carrying the
// registry's constant labels. Instrument creation must complete during
// start-up, before the registry is shared across goroutines.
func (r *Registry) NewCounter(key, help string) error {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        key,
		Help:        help,
		ConstLabels: r.labels,
	})
	if err := r.reg.Register(c); err != nil {
		return fmt.Errorf("failed to register %s counter: %w", key, err)
	}
	r.instruments[key] = instrument{kind: kindCounter, counter: c}
	return nil
}

// NewCounterVec creates and registers a counter partitioned by a single
// label dimension. Buckets are created lazily on first increment; the
// reserved "total" bucket aggregates across all of them.
func (r *Registry) NewCounterVec(key, help, label string) error {
	cv := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        key,
		Help:        help,
		ConstLabels: r.labels,
	}, []string{label})
	if err := r.reg.Register(cv); err != nil {
		return fmt.Errorf("failed to register %s counter vector: %w", key, err)
	}
	r.instruments[key] = instrument{kind: kindCounterVec, counterVec: cv}
	return nil
}

// NewGauge creates and registers a gauge under key.
func (r *Registry) NewGauge(key, help string) error {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        key,
		Help:        help,
		ConstLabels: r.labels,
	})
	if err := r.reg.Register(g); err != nil {
		return fmt.Errorf("failed to register %s gauge: %w", key, err)
	}
	r.instruments[key] = instrument{kind: kindGauge, gauge: g}
	return nil
}

// NewHistogram creates and registers a histogram under key. A nil buckets
// slice selects the Prometheus default buckets.
func (r *Registry) NewHistogram(key, help string, buckets []float64) error {
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        key,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: r.labels,
	})
	if err := r.reg.Register(h); err != nil {
		return fmt.Errorf("failed to register %s histogram: %w", key, err)
	}
	r.instruments[key] = instrument{kind: kindHistogram, histogram: h}
	return nil
}

// RegisterRuntimeCollectors adds the Go runtime and process collectors to
// reg so that scrapes include goroutine, GC and memory statistics. A
// collector that reg already carries is left in place.
func RegisterRuntimeCollectors(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return fmt.Errorf("failed to register runtime collectors: %w", err)
		}
	}
	return nil
}
