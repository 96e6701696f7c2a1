package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUntilNextRun(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		hour int
		want time.Duration
	}{
		{
			name: "later today",
			now:  time.Date(2026, 2, 10, 1, 0, 0, 0, time.UTC),
			hour: 3,
			want: 2 * time.Hour,
		},
		{
			name: "already passed, tomorrow",
			now:  time.Date(2026, 2, 10, 5, 30, 0, 0, time.UTC),
			hour: 3,
			want: 21*time.Hour + 30*time.Minute,
		},
		{
			name: "exactly at the hour waits a full day",
			now:  time.Date(2026, 2, 10, 3, 0, 0, 0, time.UTC),
			hour: 3,
			want: 24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, untilNextRun(tt.now, tt.hour))
		})
	}
}

func TestStartIntervalRunsAndStops(t *testing.T) {
	s := New()
	var runs atomic.Int32

	s.StartInterval("counter", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	assert.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Shutdown(time.Second))

	settled := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, runs.Load(), "jobs must not run after shutdown")
}

func TestJobPanicDoesNotKillScheduler(t *testing.T) {
	s := New()
	var runs atomic.Int32

	s.StartInterval("panicky", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		panic("boom")
	})

	assert.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Shutdown(time.Second))
}

func TestStartReplacesDuplicateJob(t *testing.T) {
	s := New()
	var first, second atomic.Int32

	s.StartInterval("job", 10*time.Millisecond, func(ctx context.Context) error {
		first.Add(1)
		return nil
	})
	s.StartInterval("job", 10*time.Millisecond, func(ctx context.Context) error {
		second.Add(1)
		return nil
	})

	assert.Eventually(t, func() bool {
		return second.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	settled := first.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, first.Load(), "replaced job must stop ticking")

	require.NoError(t, s.Shutdown(time.Second))
}
