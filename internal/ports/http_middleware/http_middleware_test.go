package http_middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/isabella232/manta-rebalancer/metrics"
)

// updateRecorder captures registry update calls without a real registry.
type updateRecorder struct {
	vecIncs  map[string][]string
	incs     map[string]uint64
	observes map[string][]float64
}

func newUpdateRecorder() *updateRecorder {
	return &updateRecorder{
		vecIncs:  make(map[string][]string),
		incs:     make(map[string]uint64),
		observes: make(map[string][]float64),
	}
}

func (u *updateRecorder) GaugeInc(key string)          { u.incs[key]++ }
func (u *updateRecorder) GaugeDec(key string)          { u.incs[key]-- }
func (u *updateRecorder) GaugeSet(key string, v uint64) { u.incs[key] = v }

func (u *updateRecorder) CounterIncBy(key string, v uint64) { u.incs[key] += v }

func (u *updateRecorder) CounterVecInc(key, bucket string) {
	u.vecIncs[key] = append(u.vecIncs[key], bucket)
}

func (u *updateRecorder) CounterVecIncBy(key, bucket string, v uint64) {
	for ; v > 0; v-- {
		u.vecIncs[key] = append(u.vecIncs[key], bucket)
	}
}

func (u *updateRecorder) HistogramObserve(key string, v float64) {
	u.observes[key] = append(u.observes[key], v)
}

func TestInstrumentHandler(t *testing.T) {
	testCases := []struct {
		name          string
		statusCode    int
		body          string
		expectedReqs  []string
		expectedErrs  []string
		expectedBytes uint64
	}{
		{"OK with body", http.StatusOK, "hello", []string{"GET"}, nil, 5},
		{"Not Found", http.StatusNotFound, "", []string{"GET"}, nil, 0},
		{"Internal Server Error", http.StatusInternalServerError, "boom", []string{"GET"}, []string{"http_5xx"}, 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := newUpdateRecorder()
			handler := InstrumentHandler(recorder, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.statusCode)
				if tc.body != "" {
					_, _ = w.Write([]byte(tc.body))
				}
			}))

			req := httptest.NewRequest(http.MethodGet, "/work", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.statusCode, rr.Code, "middleware must not alter the response")
			assert.Equal(t, tc.body, rr.Body.String())

			assert.Equal(t, tc.expectedReqs, recorder.vecIncs[metrics.RequestCount])
			assert.Equal(t, tc.expectedErrs, recorder.vecIncs[metrics.ErrorCount])
			assert.Equal(t, tc.expectedBytes, recorder.incs[metrics.BytesCount])
		})
	}
}

func TestInstrumentHandlerImplicitStatus(t *testing.T) {
	// A handler that never calls WriteHeader implicitly answers 200.
	recorder := newUpdateRecorder()
	handler := InstrumentHandler(recorder, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/work", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, []string{"POST"}, recorder.vecIncs[metrics.RequestCount])
	assert.Empty(t, recorder.vecIncs[metrics.ErrorCount])
	assert.Equal(t, uint64(2), recorder.incs[metrics.BytesCount])
}
