package httpapp

import (
	"net/http"
	"time"

	"github.com/dvop/dvop-site/internal/domain"
	"github.com/dvop/dvop-site/internal/status"
)

type statusResponse struct {
	GeneratedAt time.Time                  `json:"generatedAt"`
	Summary     domain.StatusSummary       `json:"summary"`
	Checks      []domain.HealthCheckResult `json:"checks"`
	History     []domain.StatusSnapshot    `json:"history"`
}

// GetStatus runs the full probe battery, records the aggregate snapshot and
// returns checks plus the retained history series.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	checks := h.Prober.RunAll(r.Context())
	summary := status.Summarize(checks)

	snapshot := domain.StatusSnapshot{
		Timestamp: time.Now().UTC(),
		OK:        summary.OK,
		Degraded:  summary.Degraded,
		Down:      summary.Down,
		Total:     summary.Total,
	}
	series := h.StatusHistory.Record(snapshot)
	if series == nil {
		series = []domain.StatusSnapshot{}
	}

	h.writeJSON(w, http.StatusOK, statusResponse{
		GeneratedAt: time.Now().UTC(),
		Summary:     summary,
		Checks:      checks,
		History:     series,
	})
}
