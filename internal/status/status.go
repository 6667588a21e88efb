// Package status exposes a small read-only HTTP API over a running
// match: liveness, match phase and live standings, with generated
// OpenAPI documentation. It observes the engine and never mutates it.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/swaggest/swgui/v5emb"

	"github.com/quizwire/quizwire/internal/history"
	"github.com/quizwire/quizwire/internal/server"
	"github.com/quizwire/quizwire/internal/trivia"
)

// Source is the engine's read-only view.
type Source interface {
	View() server.MatchView
}

// Archive lists previously recorded matches.
type Archive interface {
	RecentMatches(ctx context.Context, limit int) ([]history.MatchSummary, error)
}

// Checker verifies that an infrastructure dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

func New(addr string, logger *slog.Logger, src Source, archive Archive, checks map[string]Checker) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Quizwire Status API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, checks))
	r.Get("/api/match", handleMatch(src))
	r.Get("/api/standings", handleStandings(src))
	if archive != nil {
		r.Get("/api/history", handleHistory(logger, archive))
	}

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	s.logger.Info("status api listening", "addr", ln.Addr().String())

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type healthResult struct {
	Status string `json:"status"`
}

// HealthResponse maps dependency name to its probe result.
type HealthResponse map[string]healthResult

func handleHealth(logger *slog.Logger, checks map[string]Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		results := make(HealthResponse, len(checks)+1)
		results["server"] = healthResult{Status: "ok"}
		status := http.StatusOK

		for name, c := range checks {
			if err := c.Check(ctx); err != nil {
				logger.Error("health check failed", "name", name, "error", err)
				results[name] = healthResult{Status: "error"}
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = healthResult{Status: "ok"}
		}

		writeJSON(w, status, results)
	}
}

func handleMatch(src Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, src.View())
	}
}

// StandingsResponse is the live leaderboard.
type StandingsResponse struct {
	Standings []trivia.Placed `json:"standings"`
	Winners   []string        `json:"winners"`
}

func handleStandings(src Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := src.View()
		writeJSON(w, http.StatusOK, StandingsResponse{
			Standings: view.Standings,
			Winners:   trivia.Winners(view.Standings),
		})
	}
}

// HistoryResponse lists archived matches, newest first.
type HistoryResponse struct {
	Matches []history.MatchSummary `json:"matches"`
}

func handleHistory(logger *slog.Logger, archive Archive) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := archive.RecentMatches(r.Context(), 20)
		if err != nil {
			logger.Error("listing match history", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, HistoryResponse{Matches: matches})
	}
}
