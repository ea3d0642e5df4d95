// Package domain defines the contracts between the metrics registry and the
// components that feed or expose it.
package domain

import "net/http"

// Updater is the write-side contract of the metrics registry. All methods are
// safe for concurrent use and never fail: misuse (unknown key, wrong
// instrument kind) is logged and ignored so that instrumentation can never
// take down the host application.
type Updater interface {
	// GaugeInc adds 1 to the gauge registered under key.
	GaugeInc(key string)
	// GaugeDec subtracts 1 from the gauge registered under key.
	GaugeDec(key string)
	// GaugeSet sets the gauge registered under key to val.
	GaugeSet(key string, val uint64)
	// CounterIncBy adds val to the counter registered under key.
	CounterIncBy(key string, val uint64)
	// CounterVecInc increments the counter vector's "total" bucket and, when
	// bucket is non-empty, the named bucket as well.
	CounterVecInc(key, bucket string)
	// CounterVecIncBy is CounterVecInc with an explicit delta.
	CounterVecIncBy(key, bucket string, val uint64)
	// HistogramObserve records an observation (e.g. an elapsed time) into the
	// histogram registered under key.
	HistogramObserve(key string, val float64)
}

// Reporter is a component that can expose the current metrics snapshot, e.g.
// via an HTTP handler.
type Reporter interface {
	Handler() http.Handler
}
