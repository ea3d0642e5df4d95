package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// The constant label set is shared process-wide so that subsystems creating
// their own ad-hoc instruments can decorate them identically. It is written
// once, when Register runs, and read any number of times afterwards.
var metricsLabels struct {
	sync.Mutex
	labels prometheus.Labels
}

func publishConstLabels(labels prometheus.Labels) {
	cp := make(prometheus.Labels, len(labels))
	for k, v := range labels {
		cp[k] = v
	}

	metricsLabels.Lock()
	defer metricsLabels.Unlock()
	metricsLabels.labels = cp
}

// ConstLabels returns a copy of the published constant label set. The second
// return value is false until a registry has been constructed.
func ConstLabels() (prometheus.Labels, bool) {
	metricsLabels.Lock()
	defer metricsLabels.Unlock()

	if metricsLabels.labels == nil {
		return nil, false
	}
	cp := make(prometheus.Labels, len(metricsLabels.labels))
	for k, v := range metricsLabels.labels {
		cp[k] = v
	}
	return cp, true
}
