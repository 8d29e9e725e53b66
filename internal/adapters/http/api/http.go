// Package api serves ratings, forecasts and live game submission over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/gridiron/internal/adapters/mq/queue"
	"github.com/okian/gridiron/internal/adapters/repository"
	service "github.com/okian/gridiron/internal/app"
	"github.com/okian/gridiron/internal/domain/engine"
	"github.com/okian/gridiron/internal/domain/model"
)

// DefaultMaxLimit caps the size of a rankings page.
const DefaultMaxLimit = 100

// Dependencies required by HTTP handlers.
type Dependencies interface {
	GameDependencies
	RatingDependencies
	QBDependencies
	ForecastDependencies
}

// Server wires HTTP routes for the rating API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	gamesHandler    *GamesHandler
	ratingsHandler  *RatingsHandler
	qbHandler       *QBHandler
	forecastHandler *ForecastHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	if maxLimit < 1 {
		maxLimit = DefaultMaxLimit
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		gamesHandler:    NewGamesHandler(deps),
		ratingsHandler:  NewRatingsHandler(deps, maxLimit),
		qbHandler:       NewQBHandler(deps),
		forecastHandler: NewForecastHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/games", MetricsMiddleware(s.gamesHandler.HandleGames, "games"))
	mux.HandleFunc("/ratings", MetricsMiddleware(s.ratingsHandler.HandleGetRatings, "ratings"))
	mux.HandleFunc("/ratings/", MetricsMiddleware(s.ratingsHandler.HandleGetTeam, "rating"))
	mux.HandleFunc("/qbs/", MetricsMiddleware(s.qbHandler.HandleGetQB, "qb"))
	mux.HandleFunc("/forecast", MetricsMiddleware(s.forecastHandler.HandleGetForecast, "forecast"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps an upstream error onto a status and code.
func writeFailure(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, model.ErrMalformedGame), errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, repository.ErrStaleSeason):
		writeError(w, http.StatusBadRequest, "stale_season", Wrap(op, err))
	case errors.Is(err, engine.ErrOrderingViolation):
		writeError(w, http.StatusConflict, "out_of_order", Wrap(op, err))
	case errors.Is(err, queue.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, queue.ErrQueueClosed):
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
