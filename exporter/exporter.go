// Package exporter serves the process-wide metrics snapshot over HTTP in the
// Prometheus text exposition format.
package exporter

import (
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"
)

// Handler returns the scrape handler. Every request, regardless of method or
// path, receives a point-in-time snapshot of all instruments known to g,
// encoded in the text exposition format. Snapshots never block concurrent
// instrument updates.
func Handler(g prometheus.Gatherer, log *logrus.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		families, err := g.Gather()
		if err != nil {
			log.WithError(err).Error("failed to gather metrics")
			http.Error(w, "failed to gather metrics", http.StatusInternalServerError)
			return
		}

		format := expfmt.NewFormat(expfmt.TypeTextPlain)
		w.Header().Set("Content-Type", string(format))
		w.WriteHeader(http.StatusOK)

		enc := expfmt.NewEncoder(w, format)
		for _, mf := range families {
			if err := enc.Encode(mf); err != nil {
				// The response is already streaming, so a clean error reply is
				// off the table. Abort the connection rather than hand the
				// scraper a truncated body it might parse as complete.
				log.WithError(err).Error("failed to encode metric family")
				panic(http.ErrAbortHandler)
			}
		}
	})
}

// Server is a bound but not yet serving metrics listener.
type Server struct {
	ln  net.Listener
	log *logrus.Logger
}

// NewServer binds the metrics listener on host:port, gathering from the
// default Prometheus registry so that every instrument registered anywhere
// in the process is exported. A bind failure is returned immediately; the
// address comes from start-up configuration and is not retried.
func NewServer(host string, port uint16, log *logrus.Logger) (*Server, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind metrics listener on %s: %w", addr, err)
	}
	log.WithField("address", ln.Addr().String()).Info("metrics listener started")
	return &Server{ln: ln, log: log}, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Serve answers scrape requests until the listener is closed; under normal
// operation it does not return. Each connection is served on its own
// goroutine, so scrapes do not block each other.
func (s *Server) Serve() error {
	return http.Serve(s.ln, Handler(prometheus.DefaultGatherer, s.log))
}

// Close shuts the listener down.
func (s *Server) Close() error {
	return s.ln.Close()
}

// StartServer binds the metrics listener and serves indefinitely. It only
// returns on a bind failure or when the listener is torn down.
func StartServer(host string, port uint16, log *logrus.Logger) error {
	s, err := NewServer(host, port, log)
	if err != nil {
		return err
	}
	return s.Serve()
}
