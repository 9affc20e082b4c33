package api

import (
	"net/http"
	"time"

	"trainingorg/quizdesk/internal/common"
)

// GetStats handles GET /api/stats
func (h *Handlers) GetStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		stats, err := h.deps.Services.Stats.Get(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to load stats")
			return
		}
		common.RespondSuccess(w, initTime, "Stats fetched", stats)
	}
}
