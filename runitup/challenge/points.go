package challenge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mdevvx/official-runitup/runitup/database/models"
	"github.com/mdevvx/official-runitup/runitup/database/repositories"
)

// Engine applies point changes to users, keeps their tier in sync with
// the ladder, and writes the history ledger.
type Engine struct {
	users   repositories.UserRepository
	history repositories.PointsHistoryRepository
}

func NewEngine(users repositories.UserRepository, history repositories.PointsHistoryRepository) *Engine {
	return &Engine{users: users, history: history}
}

// UpdatePoints adds delta to the user's total. Totals may go negative
// after reversals; the tier falls back to the first rung in that case.
func (e *Engine) UpdatePoints(ctx context.Context, discordID string, username string, delta int, reason string) (*models.User, error) {
	if delta == 0 {
		return e.users.GetOrCreate(ctx, discordID, username)
	}

	user, err := e.users.GetOrCreate(ctx, discordID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", discordID, err)
	}

	user.TotalPoints += delta
	user.Tier = TierFor(user.TotalPoints).Name
	if username != "" {
		user.Username = username
	}

	if err := e.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", discordID, err)
	}

	// The user row is already committed at this point. A failed ledger
	// append is surfaced, not retried and not rolled back.
	if err := e.history.Create(ctx, &models.PointsHistory{
		UserID:       user.ID,
		PointsChange: delta,
		Reason:       reason,
	}); err != nil {
		return nil, fmt.Errorf("failed to record points history for %s: %w", discordID, err)
	}

	slog.Info("Points updated",
		slog.String("discord_id", discordID),
		slog.Int("delta", delta),
		slog.Int("total", user.TotalPoints),
		slog.String("tier", user.Tier),
		slog.String("reason", reason))

	return user, nil
}

// SetPoints overwrites the user's total outright. Used by admin
// commands; the history entry records the effective change.
func (e *Engine) SetPoints(ctx context.Context, discordID string, username string, total int, reason string) (*models.User, error) {
	user, err := e.users.GetOrCreate(ctx, discordID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", discordID, err)
	}

	delta := total - user.TotalPoints
	user.TotalPoints = total
	user.Tier = TierFor(total).Name

	if err := e.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", discordID, err)
	}

	if delta != 0 {
		if err := e.history.Create(ctx, &models.PointsHistory{
			UserID:       user.ID,
			PointsChange: delta,
			Reason:       reason,
		}); err != nil {
			return nil, fmt.Errorf("failed to record points history for %s: %w", discordID, err)
		}
	}

	return user, nil
}
