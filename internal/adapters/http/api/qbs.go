package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/gridiron/internal/domain/types"
)

// QBDependencies defines the quarterback lookup.
type QBDependencies interface {
	QB(ctx context.Context, player string) (types.QBEntry, error)
}

// QBHandler handles quarterback requests.
type QBHandler struct {
	deps QBDependencies
}

// NewQBHandler creates a new quarterback handler.
func NewQBHandler(deps QBDependencies) *QBHandler {
	return &QBHandler{deps: deps}
}

// HandleGetQB handles GET /qbs/{player} requests.
func (h *QBHandler) HandleGetQB(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_qb"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	player := strings.TrimPrefix(r.URL.Path, "/qbs/")
	if player == "" || strings.Contains(player, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.QB(r.Context(), player)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
