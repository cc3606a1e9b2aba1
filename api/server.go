// Package api exposes resolved masses over HTTP in the external
// daily-reading schema.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pevans/lectio/audiofeed"
	"github.com/pevans/lectio/cache"
	"github.com/pevans/lectio/mass"
	"github.com/pevans/lectio/usccb"
)

// MassSource resolves masses; satisfied by *usccb.Client.
type MassSource interface {
	GetMass(ctx context.Context, date time.Time, t mass.Type) (*mass.Mass, error)
	GetMassFromDate(ctx context.Context, date time.Time) (*mass.Mass, error)
	GetMassTypes(ctx context.Context, date time.Time) ([]mass.Type, error)
}

// AudioSource locates podcast episodes; satisfied by *audiofeed.Client.
type AudioSource interface {
	EpisodeFor(ctx context.Context, date time.Time) (*audiofeed.Episode, error)
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	source   MassSource
	audio    AudioSource
	store    *cache.Store
	cacheTTL time.Duration
	logger   *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAudio attaches a podcast episode source.
func WithAudio(audio AudioSource) ServerOption {
	return func(s *Server) { s.audio = audio }
}

// WithCache attaches a response cache with the given entry lifetime.
func WithCache(store *cache.Store, ttl time.Duration) ServerOption {
	return func(s *Server) { s.store = store; s.cacheTTL = ttl }
}

// WithServerLogger sets the access/error logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a Server around a mass source.
func NewServer(source MassSource, opts ...ServerOption) *Server {
	s := &Server{
		source: source,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes registers all handlers on the mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/readings/today", s.withMiddleware(s.handleToday))
	mux.HandleFunc("GET /api/v1/readings/{date}", s.withMiddleware(s.handleByDate))
	mux.HandleFunc("GET /api/v1/readings/{date}/alternates", s.withMiddleware(s.handleAlternates))
	mux.HandleFunc("GET /health", s.handleHealth)
}

// withMiddleware tags each request with an ID, logs it, and sets CORS
// headers.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		start := time.Now()
		next(w, r)
		s.logger.Info("request",
			"id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	s.serveReading(w, r, usccb.Today(), mass.TypeUnknown)
}

func (s *Server) handleByDate(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(mass.DateLayout, r.PathValue("date"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_date",
			"date must be formatted YYYY-MM-DD")
		return
	}

	// An explicit ?type= pins the mass type; otherwise the precedence rule
	// picks one.
	requested := mass.TypeUnknown
	if q := r.URL.Query().Get("type"); q != "" {
		requested = mass.ParseType(q)
		if requested == mass.TypeUnknown {
			s.writeError(w, http.StatusBadRequest, "invalid_parameter",
				fmt.Sprintf("unknown mass type %q", q))
			return
		}
	}

	s.serveReading(w, r, date, requested)
}

// serveReading resolves one mass (by date, optionally pinned to a type) and
// writes it in the external schema. requested == TypeUnknown means "let the
// precedence rule choose".
func (s *Server) serveReading(w http.ResponseWriter, r *http.Request, date time.Time, requested mass.Type) {
	m, err := s.resolveMass(r.Context(), date, requested)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	if m == nil {
		s.writeError(w, http.StatusNotFound, "not_found",
			"no mass readings found for "+date.Format(mass.DateLayout))
		return
	}

	s.writeJSON(w, http.StatusOK, FromMass(m, s.lookupEpisode(r.Context(), date)))
}

func (s *Server) handleAlternates(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(mass.DateLayout, r.PathValue("date"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_date",
			"date must be formatted YYYY-MM-DD")
		return
	}

	types, err := s.source.GetMassTypes(r.Context(), date)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	if len(types) < 2 {
		s.writeJSON(w, http.StatusOK, []DailyReading{})
		return
	}

	// The primary type is whatever the precedence rule would have chosen;
	// every other published type is an alternate. Each (date, type)
	// pipeline is independent, so alternates are fetched concurrently.
	primary := primaryType(types)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		readings []DailyReading
		fetchErr error
	)
	for _, t := range types {
		if t == primary || t == mass.TypeUnknown {
			continue
		}
		wg.Add(1)
		go func(t mass.Type) {
			defer wg.Done()
			m, err := s.resolveMass(r.Context(), date, t)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fetchErr = err
				return
			}
			if m != nil {
				readings = append(readings, FromMass(m, nil))
			}
		}(t)
	}
	wg.Wait()

	if fetchErr != nil && len(readings) == 0 {
		s.writeUpstreamError(w, fetchErr)
		return
	}

	sort.Slice(readings, func(i, j int) bool {
		return readings[i].MassType < readings[j].MassType
	})
	s.writeJSON(w, http.StatusOK, readings)
}

// resolveMass checks the cache, falls back to the source, and fills the
// cache on the way out. requested == TypeUnknown resolves by precedence.
func (s *Server) resolveMass(ctx context.Context, date time.Time, requested mass.Type) (*mass.Mass, error) {
	if s.store != nil && requested != mass.TypeUnknown {
		if m, err := s.store.Get(date, requested); err == nil && m != nil {
			return m, nil
		}
	}

	var (
		m   *mass.Mass
		err error
	)
	if requested == mass.TypeUnknown {
		m, err = s.source.GetMassFromDate(ctx, date)
	} else {
		m, err = s.source.GetMass(ctx, date, requested)
	}
	if err != nil || m == nil {
		return m, err
	}

	if s.store != nil {
		if cacheErr := s.store.Set(m, s.cacheTTL); cacheErr != nil {
			s.logger.Warn("cache write failed", "error", cacheErr)
		}
	}
	return m, nil
}

func (s *Server) lookupEpisode(ctx context.Context, date time.Time) *audiofeed.Episode {
	if s.audio == nil {
		return nil
	}
	ep, err := s.audio.EpisodeFor(ctx, date)
	if err != nil {
		// Audio is best-effort; the text response stands on its own.
		s.logger.Warn("audio feed lookup failed", "error", err)
		return nil
	}
	return ep
}

// primaryType returns the type the precedence rule selects from a resolved
// set.
func primaryType(types []mass.Type) mass.Type {
	for _, preferred := range mass.PreferredTypes {
		for _, t := range types {
			if t == preferred {
				return t
			}
		}
	}
	return mass.TypeDefault
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// writeUpstreamError maps core errors onto the envelope: transport and
// layout failures are bad-gateway conditions, anything else is internal.
func (s *Server) writeUpstreamError(w http.ResponseWriter, err error) {
	var fetchErr *usccb.FetchError
	var extractErr *usccb.ExtractionError
	switch {
	case errors.As(err, &fetchErr):
		s.writeError(w, http.StatusBadGateway, "upstream_error", fetchErr.Error())
	case errors.As(err, &extractErr):
		s.writeError(w, http.StatusBadGateway, "upstream_layout_changed", extractErr.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
