// Package api exposes the HTTP read interface over the movie store.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/metrics"
	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/internal/store"
)

// Server wires HTTP handlers to the store.
type Server struct {
	router chi.Router
	store  store.Provider
	logger *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(provider store.Provider, logger *zap.Logger) *Server {
	s := &Server{store: provider, logger: logger}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(metricsMiddleware)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/movies", s.listMovies)
		r.Get("/movies/lookup", s.lookupMovie)
		r.Get("/genres", s.listGenres)
		r.Get("/stats", s.getStats)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// listMovies serves the filter/sort contract: substring filters on title and
// directors, genre membership, minimum rating, and a bounded sort set.
func (s *Server) listMovies(w http.ResponseWriter, r *http.Request) {
	q := store.Query{
		Title:    strings.TrimSpace(r.URL.Query().Get("title")),
		Director: strings.TrimSpace(r.URL.Query().Get("director")),
		Genre:    strings.TrimSpace(r.URL.Query().Get("genre")),
		Sort:     store.Sort(strings.TrimSpace(r.URL.Query().Get("sort"))),
	}
	if g := strings.ToLower(q.Genre); g == "all" || g == "toutes" || g == "tous" {
		q.Genre = ""
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("rating_min")); raw != "" {
		min, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "rating_min must be a number")
			return
		}
		q.MinRating = &min
	}

	movies, err := s.store.List(r.Context(), q)
	if err != nil {
		s.logger.Error("list movies failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"movies": movies, "count": len(movies)})
}

func (s *Server) lookupMovie(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		writeError(w, http.StatusBadRequest, "url query parameter required")
		return
	}
	rec, err := s.store.GetByURL(r.Context(), url)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "movie not found")
		return
	}
	if err != nil {
		s.logger.Error("lookup failed", zap.String("url", url), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) listGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.store.Genres(r.Context())
	if err != nil {
		s.logger.Error("list genres failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"genres": genres})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.logger.Error("stats failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "aggregation failed")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// metricsMiddleware records request count and latency per route.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unknown"
		}
		metrics.ObserveHTTPRequest(r.Method, route, ww.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}
