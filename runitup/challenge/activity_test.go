package challenge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMessageAwardsAtThreshold(t *testing.T) {
	users := newFakeUserRepo()
	activity := newFakeActivityRepo()
	engine := NewEngine(users, &fakeHistoryRepo{})
	tracker := NewActivityTracker(activity, users, engine)

	ctx := context.Background()
	now := time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)

	require.NoError(t, tracker.RecordMessage(ctx, "1001", "alice", now))
	require.NoError(t, tracker.RecordMessage(ctx, "1001", "alice", now))

	user, err := users.GetByDiscordID(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, 0, user.TotalPoints, "two messages are below the threshold")

	require.NoError(t, tracker.RecordMessage(ctx, "1001", "alice", now))
	assert.Equal(t, 1, user.TotalPoints, "third message pays the daily point")
}

func TestRecordMessageAwardsOncePerDay(t *testing.T) {
	users := newFakeUserRepo()
	activity := newFakeActivityRepo()
	engine := NewEngine(users, &fakeHistoryRepo{})
	tracker := NewActivityTracker(activity, users, engine)

	ctx := context.Background()
	now := time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		require.NoError(t, tracker.RecordMessage(ctx, "1001", "alice", now))
	}

	user, err := users.GetByDiscordID(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, 1, user.TotalPoints)

	// A fresh UTC day pays again.
	tomorrow := now.Add(24 * time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, tracker.RecordMessage(ctx, "1001", "alice", tomorrow))
	}
	assert.Equal(t, 2, user.TotalPoints)
}

func TestRecordMessageTracksUsersIndependently(t *testing.T) {
	users := newFakeUserRepo()
	activity := newFakeActivityRepo()
	engine := NewEngine(users, &fakeHistoryRepo{})
	tracker := NewActivityTracker(activity, users, engine)

	ctx := context.Background()
	now := time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, tracker.RecordMessage(ctx, "1001", "alice", now))
	}
	require.NoError(t, tracker.RecordMessage(ctx, "1002", "bob", now))

	alice, err := users.GetByDiscordID(ctx, "1001")
	require.NoError(t, err)
	bob, err := users.GetByDiscordID(ctx, "1002")
	require.NoError(t, err)

	assert.Equal(t, 1, alice.TotalPoints)
	assert.Equal(t, 0, bob.TotalPoints)
}
