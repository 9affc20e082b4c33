package jobs

import (
	"context"
	"sync"
	"time"

	"trainingorg/quizdesk/internal/logging"
)

// StatsRefresher recomputes and caches the dashboard counters.
type StatsRefresher interface {
	Refresh(ctx context.Context) error
}

// JobStatus is a point-in-time view of a background job.
type JobStatus struct {
	Name      string    `json:"name"`
	Schedule  string    `json:"schedule"`
	Running   bool      `json:"running"`
	LastRun   time.Time `json:"last_run,omitempty"`
	LastError string    `json:"last_error,omitempty"`
	Runs      int       `json:"runs"`
}

// StatsRefreshJob keeps the cached dashboard stats warm.
type StatsRefreshJob struct {
	stats    StatsRefresher
	interval time.Duration

	mu        sync.Mutex
	running   bool
	lastRun   time.Time
	lastError string
	runs      int
}

func NewStatsRefreshJob(stats StatsRefresher, interval time.Duration) *StatsRefreshJob {
	return &StatsRefreshJob{stats: stats, interval: interval}
}

// Run refreshes the stats once. Concurrent calls are collapsed: a call made
// while a refresh is in flight returns immediately.
func (j *StatsRefreshJob) Run(ctx context.Context) error {
	j.mu.Lock()
	if j.running {
		j.mu.Unlock()
		return nil
	}
	j.running = true
	j.mu.Unlock()

	start := time.Now()
	err := j.stats.Refresh(ctx)

	j.mu.Lock()
	j.running = false
	j.lastRun = start
	j.runs++
	j.lastError = ""
	if err != nil {
		j.lastError = err.Error()
	}
	j.mu.Unlock()

	if err != nil {
		logging.Error("Stats refresh failed", "error", err)
		return err
	}
	logging.Debug("Stats refreshed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// RunScheduled refreshes immediately and then every interval until ctx is done.
func (j *StatsRefreshJob) RunScheduled(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	_ = j.Run(ctx)

	for {
		select {
		case <-ticker.C:
			_ = j.Run(ctx)
		case <-ctx.Done():
			logging.Info("Stats refresh job shutting down")
			return
		}
	}
}

func (j *StatsRefreshJob) Status() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobStatus{
		Name:      "stats_refresh",
		Schedule:  "every " + j.interval.String(),
		Running:   j.running,
		LastRun:   j.lastRun,
		LastError: j.lastError,
		Runs:      j.runs,
	}
}
