package api

import (
	"net/http"
	"time"

	"trainingorg/quizdesk/internal/auth"
	"trainingorg/quizdesk/internal/common"
	"trainingorg/quizdesk/internal/logging"
)

// JobStatus handles GET /api/admin/jobs/status
func (h *Handlers) JobStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		if h.deps.Jobs == nil {
			common.RespondError(w, initTime, nil, "Background jobs are not running", http.StatusServiceUnavailable)
			return
		}
		common.RespondSuccess(w, initTime, "Job status retrieved", h.deps.Jobs.Statuses())
	}
}

// TriggerStatsRefresh handles POST /api/admin/jobs/stats-refresh
func (h *Handlers) TriggerStatsRefresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		if h.deps.Jobs == nil {
			common.RespondError(w, initTime, nil, "Background jobs are not running", http.StatusServiceUnavailable)
			return
		}

		user := auth.GetSessionUser(r.Context())
		logging.Info("Stats refresh manually triggered", "user_id", user.ID)

		if err := h.deps.Jobs.StatsRefresh.Run(r.Context()); err != nil {
			respondServiceError(w, initTime, err, "Failed to refresh stats")
			return
		}
		common.RespondSuccess(w, initTime, "Stats refreshed", h.deps.Jobs.StatsRefresh.Status())
	}
}
