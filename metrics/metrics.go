package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alumni-scraper/utils"
)

// Metrics holds the counters of one collection process. All methods are safe
// to call on a nil *Metrics.
type Metrics struct {
	Registry *prometheus.Registry

	profilesScanned prometheus.Counter
	profilesMatched prometheus.Counter
	searchErrors    prometheus.Counter
	recordsExported *prometheus.CounterVec
	exportErrors    *prometheus.CounterVec
	searchDuration  prometheus.Histogram
}

// New creates Metrics registered on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		profilesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "alumni_scraper",
			Name:      "profiles_scanned_total",
			Help:      "Raw profiles processed by the search driver",
		}),
		profilesMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "alumni_scraper",
			Name:      "profiles_matched_total",
			Help:      "Profiles accepted by the institution classifier",
		}),
		searchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "alumni_scraper",
			Name:      "search_errors_total",
			Help:      "Upstream faults that ended a search early",
		}),
		recordsExported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alumni_scraper",
			Name:      "records_exported_total",
			Help:      "Records written by sink",
		}, []string{"sink"}),
		exportErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alumni_scraper",
			Name:      "export_errors_total",
			Help:      "Failed export attempts by sink",
		}, []string{"sink"}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "alumni_scraper",
			Name:      "search_duration_seconds",
			Help:      "Wall-clock duration of a search, pacing included",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	m.Registry.MustRegister(
		m.profilesScanned,
		m.profilesMatched,
		m.searchErrors,
		m.recordsExported,
		m.exportErrors,
		m.searchDuration,
	)
	return m
}

func (m *Metrics) ProfileScanned() {
	if m == nil {
		return
	}
	m.profilesScanned.Inc()
}

func (m *Metrics) ProfileMatched() {
	if m == nil {
		return
	}
	m.profilesMatched.Inc()
}

func (m *Metrics) SearchFailed() {
	if m == nil {
		return
	}
	m.searchErrors.Inc()
}

func (m *Metrics) SearchFinished(d time.Duration) {
	if m == nil {
		return
	}
	m.searchDuration.Observe(d.Seconds())
}

// Exported records n records written to sink.
func (m *Metrics) Exported(sink string, n int) {
	if m == nil {
		return
	}
	m.recordsExported.WithLabelValues(sink).Add(float64(n))
}

func (m *Metrics) ExportFailed(sink string) {
	if m == nil {
		return
	}
	m.exportErrors.WithLabelValues(sink).Inc()
}

// Server exposes the registry on /metrics.
type Server struct {
	server *http.Server
	logger *utils.Logger
}

// Serve starts a /metrics listener on addr in the background.
func (m *Metrics) Serve(addr string, logger *utils.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	s := &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}

	go func() {
		logger.Info("[metrics] Listening on %s/metrics", addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("[metrics] Server stopped: %v", err)
		}
	}()
	return s
}

// Shutdown stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
