// Package rebalancer wires the metrics registry and its scrape endpoint into
// a host process.
package rebalancer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/isabella232/manta-rebalancer/domain"
	"github.com/isabella232/manta-rebalancer/exporter"
	"github.com/isabella232/manta-rebalancer/metrics"
	"github.com/isabella232/manta-rebalancer/pkg/config"
)

// The registry is the write side handed to instrumented collaborators.
var _ domain.Updater = (*metrics.Registry)(nil)

// StartMetrics registers the well-known instruments plus the Go runtime
// collectors and starts the scrape endpoint on its own goroutine. Bind and
// registration failures are start-up errors and returned immediately; the
// returned registry is ready for concurrent updates.
func StartMetrics(cfg config.Metrics, log *logrus.Logger) (*metrics.Registry, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	registry, err := metrics.Register(cfg)
	if err != nil {
		return nil, err
	}
	if err := metrics.RegisterRuntimeCollectors(prometheus.DefaultRegisterer); err != nil {
		return nil, err
	}

	server, err := exporter.NewServer(cfg.Host, cfg.Port, log)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := server.Serve(); err != nil {
			log.WithError(err).Fatal("metrics server failed")
		}
	}()

	return registry, nil
}
