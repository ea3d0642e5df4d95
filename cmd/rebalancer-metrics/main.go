package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	rebalancer "github.com/isabella232/manta-rebalancer"
	"github.com/isabella232/manta-rebalancer/pkg/config"
)

func main() {
	configPath := flag.String("config", ".", "directory containing the metrics config file")
	flag.Parse()

	log := logrus.StandardLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load metrics config")
	}

	if _, err := rebalancer.StartMetrics(cfg, log); err != nil {
		log.WithError(err).Fatal("failed to start metrics")
	}

	// The registry is normally driven by the host application; this binary
	// only exposes the scrape endpoint.
	select {}
}
