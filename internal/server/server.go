// Package server exposes prayer schedules over HTTP.
package server

import (
	"context"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/litescript/ls-salat/internal/astro"
	"github.com/litescript/ls-salat/internal/config"
	"github.com/litescript/ls-salat/internal/logging"
	"github.com/litescript/ls-salat/internal/render"
	"github.com/litescript/ls-salat/internal/salat"
	"github.com/litescript/ls-salat/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Server wraps a chi.Router serving the schedule API. Query parameters
// override the configuration the server was created with.
type Server struct {
	Router chi.Router

	cfg      *config.Config
	log      *logging.Logger
	clock    func() time.Time
	registry *prometheus.Registry
	metrics  *Metrics
}

// New creates the API server.
func New(cfg *config.Config, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	log = log.With("component", "http")
	registry := prometheus.NewRegistry()
	s := &Server{
		cfg:      cfg,
		log:      log,
		clock:    time.Now,
		registry: registry,
		metrics:  NewMetrics(registry),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/times", s.handleTimes)
		r.Get("/current", s.handleCurrent)
		r.Get("/qiblah", s.handleQiblah)
	})

	s.Router = r
	return s
}

// WithClock sets the clock used when a request names no instant.
func (s *Server) WithClock(clock func() time.Time) *Server {
	s.clock = clock
	return s
}

// Start serves on the configured address until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("HTTP server listening on %s", s.cfg.Server.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("HTTP server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(started)

		s.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.metrics.RequestDurations.WithLabelValues(route).Observe(elapsed.Seconds())
		s.log.Sugar().Debugw("request",
			"method", r.Method,
			"uri", r.URL.RequestURI(),
			"status", status,
			"elapsed", elapsed,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Version})
}

func (s *Server) handleTimes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := s.parseRequest(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	date := req.at.In(req.loc)
	if v := q.Get("date"); v != "" {
		if date, err = time.ParseInLocation("2006-01-02", v, req.loc); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("date: %w", err))
			return
		}
	}

	pt, err := s.build(func() (*salat.PrayerTimes, error) {
		return salat.NewSchedule().On(date).ForLocation(req.coords).WithParameters(req.params).Build()
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, render.ExportSchedule(pt, req.at))
}

type currentResponse struct {
	At               time.Time  `json:"at"`
	Date             string     `json:"date"`
	Current          string     `json:"current"`
	CurrentName      string     `json:"current_name"`
	Restricted       bool       `json:"restricted"`
	Next             string     `json:"next,omitempty"`
	NextAt           *time.Time `json:"next_at"`
	RemainingSeconds *int64     `json:"remaining_seconds"`
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	at := req.at.In(req.loc)
	pt, err := s.build(func() (*salat.PrayerTimes, error) {
		return salat.Covering(at, req.coords, req.params)
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	export := render.ExportSchedule(pt, at)
	current := pt.Current(at)
	writeJSON(w, http.StatusOK, currentResponse{
		At:               at,
		Date:             export.Date,
		Current:          export.Current,
		CurrentName:      export.CurrentName,
		Restricted:       current.IsRestricted(),
		Next:             export.Next,
		NextAt:           export.NextAt,
		RemainingSeconds: export.RemainingSeconds,
	})
}

func (s *Server) handleQiblah(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, render.LocationExport{
		Latitude:  req.coords.Latitude,
		Longitude: req.coords.Longitude,
		Qiblah:    astro.Qiblah(req.coords),
	})
}

// build computes a schedule and records it in the metrics.
func (s *Server) build(compute func() (*salat.PrayerTimes, error)) (*salat.PrayerTimes, error) {
	started := time.Now()
	pt, err := compute()
	if err != nil {
		return nil, err
	}
	s.metrics.BuildSeconds.Observe(time.Since(started).Seconds())
	s.metrics.SchedulesBuilt.WithLabelValues(pt.Parameters().Method.String()).Inc()
	for _, p := range pt.Missing() {
		s.metrics.MissingInstants.WithLabelValues(p.String()).Inc()
	}
	return pt, nil
}

type request struct {
	coords astro.Coordinates
	params salat.Parameters
	loc    *time.Location
	at     time.Time
}

// parseRequest applies query overrides to a copy of the server
// configuration and validates the result.
func (s *Server) parseRequest(q url.Values) (*request, error) {
	cfg := *s.cfg

	floats := []struct {
		key string
		dst *float64
	}{
		{"lat", &cfg.Location.Latitude},
		{"lon", &cfg.Location.Longitude},
	}
	for _, f := range floats {
		if v := q.Get(f.key); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.key, err)
			}
			*f.dst = parsed
		}
	}

	optional := []struct {
		key string
		dst **float64
	}{
		{"fajr_angle", &cfg.Calculation.FajrAngle},
		{"isha_angle", &cfg.Calculation.IshaAngle},
		{"maghrib_angle", &cfg.Calculation.MaghribAngle},
	}
	for _, f := range optional {
		if v := q.Get(f.key); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.key, err)
			}
			*f.dst = &parsed
		}
	}
	if v := q.Get("isha_interval"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("isha_interval: %w", err)
		}
		cfg.Calculation.IshaInterval = &parsed
	}

	texts := []struct {
		key string
		dst encoding.TextUnmarshaler
	}{
		{"method", &cfg.Calculation.Method},
		{"madhab", &cfg.Calculation.Madhab},
		{"high_latitude_rule", &cfg.Calculation.HighLatitudeRule},
		{"rounding", &cfg.Calculation.Rounding},
		{"shafaq", &cfg.Calculation.Shafaq},
	}
	for _, f := range texts {
		if v := q.Get(f.key); v != "" {
			if err := f.dst.UnmarshalText([]byte(v)); err != nil {
				return nil, fmt.Errorf("%s: %w", f.key, err)
			}
		}
	}

	if v := q.Get("tz"); v != "" {
		cfg.Location.TimeZone = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params, err := cfg.Parameters()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.TimeZone()
	if err != nil {
		return nil, err
	}

	at := s.clock()
	if v := q.Get("at"); v != "" {
		if at, err = time.Parse(time.RFC3339, v); err != nil {
			return nil, fmt.Errorf("at: %w", err)
		}
	}

	return &request{coords: cfg.Coordinates(), params: params, loc: loc, at: at}, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
