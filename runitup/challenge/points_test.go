package challenge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdatePointsCreatesUserAndLedgerEntry(t *testing.T) {
	users := newFakeUserRepo()
	history := &fakeHistoryRepo{}
	engine := NewEngine(users, history)

	user, err := engine.UpdatePoints(context.Background(), "1001", "alice", 15, "Pinned post")
	require.NoError(t, err)

	assert.Equal(t, 15, user.TotalPoints)
	assert.Equal(t, "OBSERVER", user.Tier)
	require.Len(t, history.entries, 1)
	assert.Equal(t, 15, history.entries[0].PointsChange)
	assert.Equal(t, "Pinned post", history.entries[0].Reason)
}

func TestUpdatePointsCrossesTierBoundary(t *testing.T) {
	users := newFakeUserRepo()
	engine := NewEngine(users, &fakeHistoryRepo{})
	ctx := context.Background()

	user, err := engine.UpdatePoints(ctx, "1001", "alice", 49, "seed")
	require.NoError(t, err)
	assert.Equal(t, "OBSERVER", user.Tier)

	user, err = engine.UpdatePoints(ctx, "1001", "alice", 1, "one more")
	require.NoError(t, err)
	assert.Equal(t, "BUILDER", user.Tier)

	user, err = engine.UpdatePoints(ctx, "1001", "alice", 250, "big win")
	require.NoError(t, err)
	assert.Equal(t, "ELITE", user.Tier)
}

func TestUpdatePointsAllowsNegativeTotal(t *testing.T) {
	users := newFakeUserRepo()
	engine := NewEngine(users, &fakeHistoryRepo{})
	ctx := context.Background()

	_, err := engine.UpdatePoints(ctx, "1001", "alice", 5, "seed")
	require.NoError(t, err)

	user, err := engine.UpdatePoints(ctx, "1001", "alice", -20, "penalty")
	require.NoError(t, err)
	assert.Equal(t, -15, user.TotalPoints)
	assert.Equal(t, "OBSERVER", user.Tier)
}

func TestUpdatePointsSurfacesLedgerFailure(t *testing.T) {
	users := newFakeUserRepo()
	history := &fakeHistoryRepo{createErr: errors.New("ledger down")}
	engine := NewEngine(users, history)
	ctx := context.Background()

	_, err := engine.UpdatePoints(ctx, "1001", "alice", 10, "seed")
	require.ErrorIs(t, err, history.createErr)

	// The user row was already written; the failure is reported, not
	// rolled back.
	user, err := users.GetByDiscordID(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, 10, user.TotalPoints)

	_, err = engine.SetPoints(ctx, "1001", "alice", 60, "correction")
	require.ErrorIs(t, err, history.createErr)
	assert.Equal(t, 60, user.TotalPoints)
}

func TestSetPointsRecordsDeltaOnly(t *testing.T) {
	users := newFakeUserRepo()
	history := &fakeHistoryRepo{}
	engine := NewEngine(users, history)
	ctx := context.Background()

	_, err := engine.UpdatePoints(ctx, "1001", "alice", 40, "seed")
	require.NoError(t, err)

	user, err := engine.SetPoints(ctx, "1001", "alice", 160, "correction")
	require.NoError(t, err)
	assert.Equal(t, 160, user.TotalPoints)
	assert.Equal(t, "OPERATOR", user.Tier)

	require.Len(t, history.entries, 2)
	assert.Equal(t, 120, history.entries[1].PointsChange)

	// Setting the same total again should not add a ledger entry.
	_, err = engine.SetPoints(ctx, "1001", "alice", 160, "no-op")
	require.NoError(t, err)
	assert.Len(t, history.entries, 2)
}
