package challenge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdevvx/official-runitup/runitup/database/models"
)

func newReviewFixture(t *testing.T) (*ReviewService, *fakeUserRepo, *fakeSubmissionRepo, *models.User) {
	t.Helper()
	users := newFakeUserRepo()
	submissions := newFakeSubmissionRepo()
	engine := NewEngine(users, &fakeHistoryRepo{})
	service := NewReviewService(submissions, users, engine)

	user, err := users.GetOrCreate(context.Background(), "1001", "alice")
	require.NoError(t, err)
	return service, users, submissions, user
}

func TestApproveWinAwardsBracketPoints(t *testing.T) {
	service, users, submissions, user := newReviewFixture(t)
	ctx := context.Background()

	submission := &models.Submission{
		UserID: user.ID,
		Type:   models.SubmissionTypeWin,
		Amount: 1200,
	}
	require.NoError(t, submissions.Create(ctx, submission))

	approved, updated, err := service.Approve(ctx, submission.ID, "9999")
	require.NoError(t, err)

	assert.Equal(t, models.SubmissionStatusApproved, approved.Status)
	assert.Equal(t, "9999", approved.ReviewedBy)
	assert.Equal(t, 30, approved.PointsAwarded)
	assert.Equal(t, 30, updated.TotalPoints)

	stored, err := users.GetByDiscordID(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, 30, stored.TotalPoints)
}

func TestApproveTwiceReturnsErrAlreadyReviewed(t *testing.T) {
	service, users, submissions, user := newReviewFixture(t)
	ctx := context.Background()

	submission := &models.Submission{UserID: user.ID, Type: models.SubmissionTypeWin, Amount: 150}
	require.NoError(t, submissions.Create(ctx, submission))

	_, _, err := service.Approve(ctx, submission.ID, "9999")
	require.NoError(t, err)

	_, _, err = service.Approve(ctx, submission.ID, "8888")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	// The double approval must not double the points.
	stored, err := users.GetByDiscordID(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, 5, stored.TotalPoints)
}

func TestApproveReferralBumpsCount(t *testing.T) {
	service, users, submissions, user := newReviewFixture(t)
	ctx := context.Background()

	submission := &models.Submission{
		UserID:       user.ID,
		Type:         models.SubmissionTypeReferral,
		ReferralType: models.ReferralTypeDiscord,
	}
	require.NoError(t, submissions.Create(ctx, submission))

	approved, updated, err := service.Approve(ctx, submission.ID, "9999")
	require.NoError(t, err)

	assert.Equal(t, 5, approved.PointsAwarded)
	assert.Equal(t, 5, updated.TotalPoints)

	stored, err := users.GetByDiscordID(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ReferralCount)
}

func TestApproveScalerApplicationSetsFlagWithoutPoints(t *testing.T) {
	service, users, submissions, user := newReviewFixture(t)
	ctx := context.Background()

	submission := &models.Submission{UserID: user.ID, Type: models.SubmissionTypeScalerApplication}
	require.NoError(t, submissions.Create(ctx, submission))

	approved, updated, err := service.Approve(ctx, submission.ID, "9999")
	require.NoError(t, err)

	assert.Equal(t, 0, approved.PointsAwarded)
	assert.Equal(t, 0, updated.TotalPoints)

	stored, err := users.GetByDiscordID(ctx, "1001")
	require.NoError(t, err)
	assert.True(t, stored.IsScaler)
}

func TestRejectAwardsNothing(t *testing.T) {
	service, users, submissions, user := newReviewFixture(t)
	ctx := context.Background()

	submission := &models.Submission{UserID: user.ID, Type: models.SubmissionTypeWin, Amount: 5000}
	require.NoError(t, submissions.Create(ctx, submission))

	rejected, err := service.Reject(ctx, submission.ID, "9999")
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusRejected, rejected.Status)

	stored, err := users.GetByDiscordID(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.TotalPoints)

	// Rejected submissions stay closed.
	_, _, err = service.Approve(ctx, submission.ID, "8888")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestReferralLimitReached(t *testing.T) {
	user := &models.User{ReferralCount: 9}
	assert.False(t, ReferralLimitReached(user, 10))

	user.ReferralCount = 10
	assert.True(t, ReferralLimitReached(user, 10))

	// Zero config falls back to the default cap.
	assert.True(t, ReferralLimitReached(user, 0))
}
