package metrics

import "github.com/sirupsen/logrus"

// The update methods below are deliberately forgiving: metrics misuse must
// never change the behavior of the monitored service. An unknown key or an
// operation applied to the wrong instrument kind produces a single error log
// line and nothing else.

// GaugeInc adds 1 to the gauge registered under key.
func (r *Registry) GaugeInc(key string) {
	m, ok := r.instruments[key]
	if !ok {
		r.invalidKey(key)
		return
	}
	switch m.kind {
	case kindGauge:
		m.gauge.Inc()
	default:
		r.kindMismatch(key, m.kind, kindGauge)
	}
}

// GaugeDec subtracts 1 from the gauge registered under key.
func (r *Registry) GaugeDec(key string) {
	m, ok := r.instruments[key]
	if !ok {
		r.invalidKey(key)
		return
	}
	switch m.kind {
	case kindGauge:
		m.gauge.Dec()
	default:
		r.kindMismatch(key, m.kind, kindGauge)
	}
}

// GaugeSet sets the gauge registered under key to val.
func (r *Registry) GaugeSet(key string, val uint64) {
	m, ok := r.instruments[key]
	if !ok {
		r.invalidKey(key)
		return
	}
	switch m.kind {
	case kindGauge:
		m.gauge.Set(float64(val))
	default:
		r.kindMismatch(key, m.kind, kindGauge)
	}
}

// CounterIncBy adds val to the plain counter registered under key.
func (r *Registry) CounterIncBy(key string, val uint64) {
	m, ok := r.instruments[key]
	if !ok {
		r.invalidKey(key)
		return
	}
	switch m.kind {
	case kindCounter:
		m.counter.Add(float64(val))
	default:
		r.kindMismatch(key, m.kind, kindCounter)
	}
}

// CounterVecInc increments the counter vector's "total" bucket and, when
// bucket is non-empty, the named bucket as well.
func (r *Registry) CounterVecInc(key, bucket string) {
	r.CounterVecIncBy(key, bucket, 1)
}

// CounterVecIncBy adds val to the counter vector's "total" bucket. When
// bucket is non-empty that bucket receives the same delta; it represents
// some subset of the total for the key.
func (r *Registry) CounterVecIncBy(key, bucket string, val uint64) {
	m, ok := r.instruments[key]
	if !ok {
		r.invalidKey(key)
		return
	}
	switch m.kind {
	case kindCounterVec:
		num := float64(val)
		m.counterVec.WithLabelValues(totalBucket).Add(num)
		if bucket != "" {
			m.counterVec.WithLabelValues(bucket).Add(num)
		}
	default:
		r.kindMismatch(key, m.kind, kindCounterVec)
	}
}

// HistogramObserve records val into the histogram registered under key.
func (r *Registry) HistogramObserve(key string, val float64) {
	m, ok := r.instruments[key]
	if !ok {
		r.invalidKey(key)
		return
	}
	switch m.kind {
	case kindHistogram:
		m.histogram.Observe(val)
	default:
		r.kindMismatch(key, m.kind, kindHistogram)
	}
}

func (r *Registry) invalidKey(key string) {
	r.log.WithField("metric", key).Error("invalid metric key")
}

func (r *Registry) kindMismatch(key string, got, want kind) {
	r.log.WithFields(logrus.Fields{
		"metric": key,
		"kind":   got.String(),
		"want":   want.String(),
	}).Error("metric kind mismatch")
}
