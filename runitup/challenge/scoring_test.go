package challenge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScorerFixture(t *testing.T) (*PostScorer, *fakeUserRepo, *fakeValuePostRepo) {
	t.Helper()
	users := newFakeUserRepo()
	posts := newFakeValuePostRepo()
	engine := NewEngine(users, &fakeHistoryRepo{})
	return NewPostScorer(posts, users, engine, 2, 30), users, posts
}

func trackPost(t *testing.T, scorer *PostScorer, messageID string) {
	t.Helper()
	err := scorer.TrackPost(context.Background(), "1001", "alice", messageID, "555", time.Now())
	require.NoError(t, err)
}

func TestTrackPostEnforcesDailyLimit(t *testing.T) {
	scorer, _, _ := newScorerFixture(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, scorer.TrackPost(ctx, "1001", "alice", "m1", "555", now))
	require.NoError(t, scorer.TrackPost(ctx, "1001", "alice", "m2", "555", now))

	err := scorer.TrackPost(ctx, "1001", "alice", "m3", "555", now)
	assert.ErrorIs(t, err, ErrDailyPostLimit)

	// A different member is unaffected by alice's limit.
	require.NoError(t, scorer.TrackPost(ctx, "1002", "bob", "m4", "555", now))

	// The next day resets the allowance.
	require.NoError(t, scorer.TrackPost(ctx, "1001", "alice", "m5", "555", now.Add(24*time.Hour)))
}

func TestApplySnapshotSettlesDelta(t *testing.T) {
	scorer, users, _ := newScorerFixture(t)
	ctx := context.Background()
	trackPost(t, scorer, "m1")

	require.NoError(t, scorer.ApplySnapshot(ctx, "m1", 2, 1, 1))

	user, err := users.GetByDiscordID(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, 14, user.TotalPoints)

	// Fewer reactions in the next snapshot claw points back.
	require.NoError(t, scorer.ApplySnapshot(ctx, "m1", 1, 0, 0))
	assert.Equal(t, 3, user.TotalPoints)
}

func TestApplySnapshotIsIdempotent(t *testing.T) {
	scorer, users, _ := newScorerFixture(t)
	ctx := context.Background()
	trackPost(t, scorer, "m1")

	for i := 0; i < 3; i++ {
		require.NoError(t, scorer.ApplySnapshot(ctx, "m1", 1, 1, 0))
	}

	user, err := users.GetByDiscordID(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, 6, user.TotalPoints)
}

func TestApplySnapshotRespectsPerPostCap(t *testing.T) {
	scorer, users, _ := newScorerFixture(t)
	ctx := context.Background()
	trackPost(t, scorer, "m1")

	require.NoError(t, scorer.ApplySnapshot(ctx, "m1", 20, 20, 20))

	user, err := users.GetByDiscordID(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, 30, user.TotalPoints)
}

func TestApplySnapshotIgnoresUntrackedMessage(t *testing.T) {
	scorer, _, _ := newScorerFixture(t)
	assert.NoError(t, scorer.ApplySnapshot(context.Background(), "unknown", 3, 3, 3))
}

func TestSetPinnedAwardsBonusOnce(t *testing.T) {
	scorer, users, _ := newScorerFixture(t)
	ctx := context.Background()
	trackPost(t, scorer, "m1")

	require.NoError(t, scorer.SetPinned(ctx, "m1", true))
	require.NoError(t, scorer.SetPinned(ctx, "m1", true))

	user, err := users.GetByDiscordID(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, 15, user.TotalPoints)

	require.NoError(t, scorer.SetPinned(ctx, "m1", false))
	assert.Equal(t, 0, user.TotalPoints)
}

func TestPinnedSnapshotKeepsBonus(t *testing.T) {
	scorer, users, _ := newScorerFixture(t)
	ctx := context.Background()
	trackPost(t, scorer, "m1")

	require.NoError(t, scorer.SetPinned(ctx, "m1", true))
	require.NoError(t, scorer.ApplySnapshot(ctx, "m1", 1, 0, 0))

	user, err := users.GetByDiscordID(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, 18, user.TotalPoints)
}

func TestSetPinnedBonusRidesAboveCap(t *testing.T) {
	scorer, users, _ := newScorerFixture(t)
	ctx := context.Background()
	trackPost(t, scorer, "m1")

	// 10 fire reactions put the weighted sum exactly at the cap.
	require.NoError(t, scorer.ApplySnapshot(ctx, "m1", 10, 0, 0))

	user, err := users.GetByDiscordID(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, 30, user.TotalPoints)

	// The pin bonus is paid in full on top of the capped sum.
	require.NoError(t, scorer.SetPinned(ctx, "m1", true))
	assert.Equal(t, 45, user.TotalPoints)

	require.NoError(t, scorer.SetPinned(ctx, "m1", false))
	assert.Equal(t, 30, user.TotalPoints)
}

func TestRemovePostReversesEarnedPoints(t *testing.T) {
	scorer, users, _ := newScorerFixture(t)
	ctx := context.Background()
	trackPost(t, scorer, "m1")

	require.NoError(t, scorer.ApplySnapshot(ctx, "m1", 2, 2, 0))
	require.NoError(t, scorer.RemovePost(ctx, "m1"))

	user, err := users.GetByDiscordID(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, 0, user.TotalPoints)
	assert.False(t, scorer.Tracked(ctx, "m1"))
}

func TestTracked(t *testing.T) {
	scorer, _, _ := newScorerFixture(t)
	ctx := context.Background()

	assert.False(t, scorer.Tracked(ctx, "m1"))
	trackPost(t, scorer, "m1")
	assert.True(t, scorer.Tracked(ctx, "m1"))
}
