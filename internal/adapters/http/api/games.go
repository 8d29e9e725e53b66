package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/gridiron/internal/domain/engine"
	"github.com/okian/gridiron/internal/domain/model"
)

// GameDependencies defines the game submission and listing operations.
type GameDependencies interface {
	Submit(ctx context.Context, g model.GameRecord) (string, error)
	Games(ctx context.Context, season int) ([]model.GameRecord, error)
}

// GamesHandler handles /games requests.
type GamesHandler struct {
	deps GameDependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps GameDependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

// gameRequest mirrors the body of POST /games.
type gameRequest struct {
	GameID      string   `json:"game_id"`
	Season      int      `json:"season"`
	Week        int      `json:"week"`
	WeekLabel   string   `json:"week_label"`
	Home        string   `json:"home"`
	Away        string   `json:"away"`
	Neutral     bool     `json:"neutral"`
	SiteStadium string   `json:"site_stadium"`
	HomeScore   *int     `json:"home_score"`
	AwayScore   *int     `json:"away_score"`
	HomeQB      string   `json:"home_qb"`
	AwayQB      string   `json:"away_qb"`
	HomeQBValue *float64 `json:"home_qb_value"`
	AwayQBValue *float64 `json:"away_qb_value"`
}

func (req *gameRequest) validate() error {
	switch {
	case req.Season < 1:
		return errors.New("missing season")
	case req.Week < 1:
		return errors.New("missing week")
	case strings.TrimSpace(req.Home) == "":
		return errors.New("missing home")
	case strings.TrimSpace(req.Away) == "":
		return errors.New("missing away")
	case req.HomeQBValue != nil && req.HomeQB == "", req.AwayQBValue != nil && req.AwayQB == "":
		return errors.New("quarterback value without quarterback")
	}
	return nil
}

func (req *gameRequest) record() model.GameRecord {
	g := model.GameRecord{
		ID:          strings.TrimSpace(req.GameID),
		Season:      req.Season,
		Week:        req.Week,
		WeekLabel:   strings.TrimSpace(req.WeekLabel),
		Home:        strings.TrimSpace(req.Home),
		Away:        strings.TrimSpace(req.Away),
		Neutral:     req.Neutral,
		SiteStadium: strings.TrimSpace(req.SiteStadium),
		HomeScore:   req.HomeScore,
		AwayScore:   req.AwayScore,
	}
	if req.HomeQB != "" {
		g.HomeQB = &model.QBStart{PlayerID: req.HomeQB, Value: req.HomeQBValue}
	}
	if req.AwayQB != "" {
		g.AwayQB = &model.QBStart{PlayerID: req.AwayQB, Value: req.AwayQBValue}
	}
	return g
}

type ackResponse struct {
	Status    string `json:"status"`
	GameID    string `json:"game_id,omitempty"`
	Duplicate bool   `json:"duplicate"`
}

// HandleGames dispatches GET and POST /games.
func (h *GamesHandler) HandleGames(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleSubmit(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleSubmit handles POST /games. Resubmitting a known game is
// acknowledged as a duplicate, not an error.
func (h *GamesHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_game"
	var req gameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	id, err := h.deps.Submit(r.Context(), req.record())
	if errors.Is(err, engine.ErrDuplicateGame) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", GameID: req.GameID, Duplicate: true})
		return
	}
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", GameID: id})
}

// handleList handles GET /games?season=N.
func (h *GamesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_games"
	season := 0
	if s := r.URL.Query().Get("season"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		season = n
	}
	games, err := h.deps.Games(r.Context(), season)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}
