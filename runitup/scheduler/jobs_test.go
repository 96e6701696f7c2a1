package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdevvx/official-runitup/runitup/database/models"
	"github.com/mdevvx/official-runitup/runitup/database/repositories"
)

// Partial fakes: the embedded interface panics on anything the job
// under test shouldn't touch.

type stubActivityRepo struct {
	repositories.DailyActivityRepository
	rows    []*models.DailyActivity
	deleted bool
	listErr error
}

func (r *stubActivityRepo) ListOlderThan(_ context.Context, _ time.Time) ([]*models.DailyActivity, error) {
	return r.rows, r.listErr
}

func (r *stubActivityRepo) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) {
	r.deleted = true
	return int64(len(r.rows)), nil
}

type stubUserRepo struct {
	repositories.UserRepository
	count   int
	counted bool
}

func (r *stubUserRepo) Count(_ context.Context) (int, error) {
	r.counted = true
	return r.count, nil
}

type stubSubmissionRepo struct {
	repositories.SubmissionRepository
	count   int
	counted bool
}

func (r *stubSubmissionRepo) Count(_ context.Context) (int, error) {
	r.counted = true
	return r.count, nil
}

func TestRetentionJobDeletesExpiredRows(t *testing.T) {
	activity := &stubActivityRepo{rows: []*models.DailyActivity{{ID: 1}, {ID: 2}}}
	users := &stubUserRepo{count: 40}
	submissions := &stubSubmissionRepo{count: 12}

	job := RetentionJob(activity, users, submissions, nil)
	require.NoError(t, job(context.Background()))

	assert.True(t, activity.deleted)
	assert.True(t, users.counted, "sweep must report the user total")
	assert.True(t, submissions.counted, "sweep must report the submission total")
}

func TestRetentionJobReportsStatsWhenNothingExpired(t *testing.T) {
	activity := &stubActivityRepo{}
	users := &stubUserRepo{count: 40}
	submissions := &stubSubmissionRepo{count: 12}

	job := RetentionJob(activity, users, submissions, nil)
	require.NoError(t, job(context.Background()))

	assert.False(t, activity.deleted)
	assert.True(t, users.counted)
	assert.True(t, submissions.counted)
}

func TestRetentionJobSurfacesListFailure(t *testing.T) {
	activity := &stubActivityRepo{listErr: errors.New("db down")}

	job := RetentionJob(activity, &stubUserRepo{}, &stubSubmissionRepo{}, nil)
	err := job(context.Background())
	require.ErrorIs(t, err, activity.listErr)
	assert.False(t, activity.deleted)
}
