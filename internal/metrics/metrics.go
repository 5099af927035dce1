package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FranksOps/dossier/internal/search"
)

var (
	PlatformSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dossier_platform_searches_total",
			Help: "Total number of platform lookups executed",
		},
		[]string{"platform", "status", "method"},
	)

	PlatformSearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dossier_platform_search_duration_seconds",
			Help:    "Duration of platform lookups in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"platform"},
	)

	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dossier_runs_total",
			Help: "Total number of search runs by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordRun updates the run counter. Outcome is "completed", "canceled" or
// "rejected" (validation failure).
func RecordRun(outcome string) {
	RunsTotal.WithLabelValues(outcome).Inc()
}

// instrumented wraps an adapter, recording a counter and duration sample per
// lookup. The engine stays metrics-free; instrumentation happens at adapter
// registration time.
type instrumented struct {
	search.Adapter
}

// Instrument wraps an adapter with Prometheus instrumentation.
func Instrument(a search.Adapter) search.Adapter {
	return &instrumented{Adapter: a}
}

// InstrumentRegistry wraps every adapter currently in the registry.
func InstrumentRegistry(reg *search.Registry) {
	for _, id := range reg.IDs() {
		if a, ok := reg.Lookup(id); ok {
			reg.Register(Instrument(a))
		}
	}
}

func (i *instrumented) Search(ctx context.Context, q search.Query) (search.Result, error) {
	start := time.Now()
	res, err := i.Adapter.Search(ctx, q)

	status := string(res.Status)
	if err != nil {
		status = string(search.StatusError)
	}

	PlatformSearchesTotal.WithLabelValues(i.Adapter.ID(), status, string(i.Adapter.CheckMethod())).Inc()
	PlatformSearchDuration.WithLabelValues(i.Adapter.ID()).Observe(time.Since(start).Seconds())
	return res, err
}

// Server encapsulates an HTTP server exposing Prometheus metrics.
type Server struct {
	srv *http.Server
}

// Start begins listening on the specified port and exposes /metrics.
func Start(port int) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		// Suppress the error from intentional shutdown
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server failed: %v\n", err)
		}
	}()

	return &Server{srv: srv}
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
