package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRefresher) Refresh(context.Context) error {
	f.calls.Add(1)
	return f.err
}

func TestStatsRefreshJob_RunRecordsStatus(t *testing.T) {
	f := &fakeRefresher{}
	job := NewStatsRefreshJob(f, time.Minute)

	require.NoError(t, job.Run(context.Background()))
	st := job.Status()
	assert.Equal(t, "stats_refresh", st.Name)
	assert.Equal(t, 1, st.Runs)
	assert.Empty(t, st.LastError)
	assert.False(t, st.LastRun.IsZero())

	f.err = errors.New("db down")
	assert.Error(t, job.Run(context.Background()))
	assert.Equal(t, "db down", job.Status().LastError)
	assert.Equal(t, 2, job.Status().Runs)
}

func TestStatsRefreshJob_RunScheduledStopsOnCancel(t *testing.T) {
	f := &fakeRefresher{}
	job := NewStatsRefreshJob(f, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		job.RunScheduled(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return f.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled job did not stop")
	}
}
