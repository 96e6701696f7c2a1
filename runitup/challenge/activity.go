package challenge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mdevvx/official-runitup/runitup/config"
	"github.com/mdevvx/official-runitup/runitup/database/repositories"
)

// ActivityTracker counts member messages per UTC day and pays the daily
// activity point once the threshold is crossed.
type ActivityTracker struct {
	activity repositories.DailyActivityRepository
	users    repositories.UserRepository
	engine   *Engine
}

func NewActivityTracker(activity repositories.DailyActivityRepository, users repositories.UserRepository, engine *Engine) *ActivityTracker {
	return &ActivityTracker{activity: activity, users: users, engine: engine}
}

// RecordMessage bumps the user's message count for today and awards the
// daily point at the threshold. MarkAwarded is conditional, so a burst
// of messages still pays at most once per day.
func (t *ActivityTracker) RecordMessage(ctx context.Context, discordID string, username string, now time.Time) error {
	user, err := t.engine.users.GetOrCreate(ctx, discordID, username)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", discordID, err)
	}

	day := now.UTC().Truncate(24 * time.Hour)
	activity, err := t.activity.Track(ctx, user.ID, day)
	if err != nil {
		return fmt.Errorf("failed to track activity for %s: %w", discordID, err)
	}

	if activity.MessageCount < config.DailyActivityThreshold || activity.PointsAwarded > 0 {
		return nil
	}

	awarded, err := t.activity.MarkAwarded(ctx, activity.ID, config.PointsDailyActivity)
	if err != nil {
		return fmt.Errorf("failed to mark daily award for %s: %w", discordID, err)
	}
	if !awarded {
		return nil
	}

	if _, err := t.engine.UpdatePoints(ctx, discordID, username, config.PointsDailyActivity, "Daily activity"); err != nil {
		return err
	}

	slog.Debug("Daily activity point awarded",
		slog.String("discord_id", discordID),
		slog.Int("message_count", activity.MessageCount))
	return nil
}
