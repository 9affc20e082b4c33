package jobs

import (
	"context"
	"time"
)

type JobsContainer struct {
	StatsRefresh *StatsRefreshJob
}

// InitializeJobs creates the background jobs and starts their schedules. They
// stop when ctx is cancelled.
func InitializeJobs(ctx context.Context, stats StatsRefresher, statsInterval time.Duration) *JobsContainer {
	statsJob := NewStatsRefreshJob(stats, statsInterval)
	go statsJob.RunScheduled(ctx)

	return &JobsContainer{StatsRefresh: statsJob}
}

// Statuses lists every job for the admin status endpoint.
func (c *JobsContainer) Statuses() []JobStatus {
	return []JobStatus{c.StatsRefresh.Status()}
}
