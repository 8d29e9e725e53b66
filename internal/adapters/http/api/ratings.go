package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/gridiron/internal/domain/types"
)

// defaultLimit is the rankings page size when no limit is given.
const defaultLimit = 32

// RatingDependencies defines the ranking operations.
type RatingDependencies interface {
	TopN(ctx context.Context, n int) ([]types.RatingEntry, error)
	Rating(ctx context.Context, team string) (types.RatingEntry, error)
}

// RatingsHandler handles ranking requests.
type RatingsHandler struct {
	deps     RatingDependencies
	maxLimit int
}

// NewRatingsHandler creates a new ratings handler.
func NewRatingsHandler(deps RatingDependencies, maxLimit int) *RatingsHandler {
	return &RatingsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetRatings handles GET /ratings?limit=N requests.
func (h *RatingsHandler) HandleGetRatings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ratings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := min(defaultLimit, h.maxLimit)
	if s := r.URL.Query().Get("limit"); s != "" {
		var err error
		n, err = strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetTeam handles GET /ratings/{team} requests.
func (h *RatingsHandler) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rating"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	team := strings.TrimPrefix(r.URL.Path, "/ratings/")
	if team == "" || strings.Contains(team, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Rating(r.Context(), team)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
