package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gravitrone/feedback-form/internal/form"
)

const maxBodyBytes = 1 << 20

// Collector is a development endpoint that accepts feedback records and
// keeps them in memory.
type Collector struct {
	apiKey   string
	logger   *zap.Logger
	registry *prometheus.Registry
	received *prometheus.CounterVec
	now      func() time.Time

	mu      sync.Mutex
	records []form.Record
}

// New builds a collector. An empty apiKey disables authentication.
func New(apiKey string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	return &Collector{
		apiKey:   apiKey,
		logger:   logger,
		registry: reg,
		received: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedback_received_total",
				Help: "Feedback records accepted by the collector",
			},
			[]string{"category"},
		),
		now: time.Now,
	}
}

// Router returns the HTTP routes served by the collector.
func (c *Collector) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/api/health", c.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
	r.With(c.requireKey).Post("/api/feedback", c.handleFeedback)
	return r
}

// Records returns a copy of every record accepted so far.
func (c *Collector) Records() []form.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]form.Record, len(c.records))
	copy(out, c.records)
	return out
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           c.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.logger.Info("collector listening", zap.String("addr", addr))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("collector server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("collector shutdown: %w", err)
	}
	c.logger.Info("collector stopped")
	return nil
}

func (c *Collector) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c.apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token != c.apiKey {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (c *Collector) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (c *Collector) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var rec form.Record
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid feedback payload")
		return
	}
	if rec.ID == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "record id is required")
		return
	}

	c.mu.Lock()
	c.records = append(c.records, rec)
	c.mu.Unlock()
	c.received.WithLabelValues(rec.Category).Inc()

	c.logger.Info("feedback received",
		zap.String("id", rec.ID),
		zap.String("category", rec.Category),
		zap.Bool("attachment", rec.Attachment != nil),
	)

	writeJSON(w, http.StatusCreated, map[string]any{
		"data": map[string]any{
			"id":          rec.ID,
			"status":      "received",
			"received_at": c.now().UTC(),
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
