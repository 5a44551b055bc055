// Package metrics exposes meter counters to Prometheus.
//
// All methods are safe on a nil *Metrics, so components can take one
// unconditionally and callers that do not export metrics pass nil.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const namespace = "pwm_meter"

type Metrics struct {
	registry *prometheus.Registry

	LinesReceived    prometheus.Counter
	ReadingsAccepted prometheus.Counter
	LinesRejected    *prometheus.CounterVec
	ReadErrors       prometheus.Counter
	ConnectAttempts  *prometheus.CounterVec
	SessionOpen      prometheus.Gauge
	Latest           *prometheus.GaugeVec
}

// New creates the collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		LinesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_received_total",
			Help:      "Lines delivered by the serial session",
		}),
		ReadingsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_accepted_total",
			Help:      "Lines parsed into a reading",
		}),
		LinesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_rejected_total",
			Help:      "Lines dropped by the parser",
		}, []string{"reason"}),
		ReadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_errors_total",
			Help:      "Transport read errors ignored while the session was open",
		}),
		ConnectAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_attempts_total",
			Help:      "Connect attempts by result",
		}, []string{"result"}),
		SessionOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_open",
			Help:      "1 while a serial session is open",
		}),
		Latest: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "latest_value",
			Help:      "Most recent accepted value per channel",
		}, []string{"channel"}),
	}

	m.registry.MustRegister(
		m.LinesReceived,
		m.ReadingsAccepted,
		m.LinesRejected,
		m.ReadErrors,
		m.ConnectAttempts,
		m.SessionOpen,
		m.Latest,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the registry the collectors are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) LineReceived() {
	if m == nil {
		return
	}
	m.LinesReceived.Inc()
}

// Accepted records a parsed reading and its channel values
func (m *Metrics) Accepted(pwm, rpm int, volt float64) {
	if m == nil {
		return
	}
	m.ReadingsAccepted.Inc()
	m.Latest.WithLabelValues("pwm").Set(float64(pwm))
	m.Latest.WithLabelValues("rpm").Set(float64(rpm))
	m.Latest.WithLabelValues("volt").Set(volt)
}

func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.LinesRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) ReadError() {
	if m == nil {
		return
	}
	m.ReadErrors.Inc()
}

// Connected records the outcome of a connect attempt
func (m *Metrics) Connected(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.ConnectAttempts.WithLabelValues("error").Inc()
		return
	}
	m.ConnectAttempts.WithLabelValues("ok").Inc()
	m.SessionOpen.Set(1)
}

func (m *Metrics) Disconnected() {
	if m == nil {
		return
	}
	m.SessionOpen.Set(0)
}

// Handler serves /metrics and /health
func (m *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

// Serve runs the metrics HTTP server until ctx is cancelled
func (m *Metrics) Serve(ctx context.Context, addr string, log logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", addr).Info("metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
