// Package server exposes health, metrics and run endpoints over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/recorder"
	"PortfolioSentinel/internal/scheduler"
)

// Runs is the part of the scheduler the API drives.
type Runs interface {
	RunNow(ctx context.Context, trigger model.RunTrigger) (*model.RunReport, error)
	Latest(ctx context.Context) (*model.RunReport, error)
}

// Server wires the HTTP routes. History and Metrics may be nil.
type Server struct {
	Runs    Runs
	History recorder.Recorder
	Metrics http.Handler
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/report/latest", s.handleLatest)
		r.Post("/run", s.handleRun)
		r.Get("/history/{symbol}", s.handleHistory)
	})
	return r
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	rep, err := s.Runs.Latest(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rep == nil {
		writeError(w, http.StatusNotFound, "no report yet")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	rep, err := s.Runs.RunNow(r.Context(), model.TriggerAPI)
	switch {
	case errors.Is(err, scheduler.ErrRunInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrConfiguration):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, rep)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		writeError(w, http.StatusNotImplemented, "history is not recorded")
		return
	}
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
	limit := 30
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = n
	}
	rows, err := s.History.History(r.Context(), symbol, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rows == nil {
		rows = []recorder.RecommendationRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
