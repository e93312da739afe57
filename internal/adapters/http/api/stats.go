package api

import (
	"net/http"

	"github.com/okian/vitrine/internal/domain/types"
)

// StatsProvider reports skin, payload and probe pool state.
type StatsProvider interface {
	GetStats() types.Stats
}

// StatsHandler serves GET /stats.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a stats handler over p.
func NewStatsHandler(p StatsProvider) *StatsHandler {
	return &StatsHandler{provider: p}
}

// HandleStats writes the current service stats as JSON.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.provider.GetStats())
}
