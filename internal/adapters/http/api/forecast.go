package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/types"
)

// ForecastDependencies defines the hypothetical matchup forecast.
type ForecastDependencies interface {
	Forecast(ctx context.Context, m types.Matchup) (model.Forecast, error)
}

// ForecastHandler handles forecast requests.
type ForecastHandler struct {
	deps ForecastDependencies
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(deps ForecastDependencies) *ForecastHandler {
	return &ForecastHandler{deps: deps}
}

// HandleGetForecast handles
// GET /forecast?home=&away=[&season=&neutral=&stadium=&playoff=&home_rested=&away_rested=&home_qb=&away_qb=].
func (h *ForecastHandler) HandleGetForecast(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_forecast"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	m, err := matchupFrom(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	f, err := h.deps.Forecast(r.Context(), m)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func matchupFrom(q url.Values) (types.Matchup, error) {
	m := types.Matchup{
		Home:    q.Get("home"),
		Away:    q.Get("away"),
		Stadium: q.Get("stadium"),
		HomeQB:  q.Get("home_qb"),
		AwayQB:  q.Get("away_qb"),
	}
	if m.Home == "" || m.Away == "" {
		return m, errors.New("home and away are required")
	}
	if s := q.Get("season"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return m, fmt.Errorf("invalid season %q", s)
		}
		m.Season = n
	}
	for key, dst := range map[string]*bool{
		"neutral":     &m.Neutral,
		"playoff":     &m.Playoff,
		"home_rested": &m.HomeRested,
		"away_rested": &m.AwayRested,
	} {
		s := q.Get(key)
		if s == "" {
			continue
		}
		v, err := strconv.ParseBool(s)
		if err != nil {
			return m, fmt.Errorf("invalid %s %q", key, s)
		}
		*dst = v
	}
	return m, nil
}
