package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/sync/errgroup"

	"github.com/mdevvx/official-runitup/runitup/challenge"
	"github.com/mdevvx/official-runitup/runitup/config"
	"github.com/mdevvx/official-runitup/runitup/database/models"
	"github.com/mdevvx/official-runitup/runitup/database/repositories"
	"github.com/mdevvx/official-runitup/runitup/services"
)

// TierSyncJob reconciles every member's Discord tier role with their
// stored tier. Roles are matched by name so they can be recreated in
// the guild without a config change.
func TierSyncJob(client bot.Client, users repositories.UserRepository, guildID snowflake.ID) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		roles, err := client.Rest().GetRoles(guildID)
		if err != nil {
			return fmt.Errorf("failed to fetch guild roles: %w", err)
		}

		tierRoles := make(map[string]snowflake.ID, len(challenge.Tiers))
		for _, tier := range challenge.Tiers {
			for _, role := range roles {
				if role.Name == tier.RoleName {
					tierRoles[tier.Name] = role.ID
					break
				}
			}
			if _, ok := tierRoles[tier.Name]; !ok {
				slog.Warn("Tier role missing from guild",
					slog.String("type", "task"),
					slog.String("role", tier.RoleName))
			}
		}

		all, err := users.GetUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to load users: %w", err)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(config.TierSyncConcurrency)
		for _, user := range all {
			user := user
			g.Go(func() error {
				syncMemberRoles(gctx, client, guildID, user, tierRoles)
				return nil
			})
		}
		return g.Wait()
	}
}

// syncMemberRoles is best effort per member. A user who left the guild
// or a transient REST failure shouldn't abort the whole sweep.
func syncMemberRoles(ctx context.Context, client bot.Client, guildID snowflake.ID, user *models.User, tierRoles map[string]snowflake.ID) {
	userID, err := snowflake.Parse(user.DiscordID)
	if err != nil {
		return
	}

	member, err := client.Rest().GetMember(guildID, userID)
	if err != nil {
		return
	}

	has := make(map[snowflake.ID]bool, len(member.RoleIDs))
	for _, roleID := range member.RoleIDs {
		has[roleID] = true
	}

	wantRole, hasWant := tierRoles[user.Tier]
	for tierName, roleID := range tierRoles {
		switch {
		case hasWant && roleID == wantRole:
			if !has[roleID] {
				if err := client.Rest().AddMemberRole(guildID, userID, roleID); err != nil {
					slog.Warn("Failed to grant tier role",
						slog.String("type", "task"),
						slog.String("user", user.DiscordID),
						slog.String("tier", tierName),
						slog.String("error", err.Error()))
				}
			}
		case has[roleID]:
			if err := client.Rest().RemoveMemberRole(guildID, userID, roleID); err != nil {
				slog.Warn("Failed to revoke tier role",
					slog.String("type", "task"),
					slog.String("user", user.DiscordID),
					slog.String("tier", tierName),
					slog.String("error", err.Error()))
			}
		}
	}
}

// RetentionJob archives daily activity rows past the retention window
// and deletes them. When no archiver is configured the rows are still
// deleted so the table stays bounded. Every sweep closes with the
// database aggregate stats.
func RetentionJob(activity repositories.DailyActivityRepository, users repositories.UserRepository, submissions repositories.SubmissionRepository, archiver *services.ActivityArchiver) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		cutoff := time.Now().UTC().AddDate(0, 0, -config.ActivityRetentionDays)

		var deleted int64
		rows, err := activity.ListOlderThan(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("failed to list expired activity: %w", err)
		}
		if len(rows) > 0 {
			if archiver != nil {
				if err := archiver.Archive(ctx, rows, time.Now().UTC()); err != nil {
					return fmt.Errorf("failed to archive activity: %w", err)
				}
			} else {
				slog.Warn("No archiver configured, deleting expired activity without backup",
					slog.String("type", "task"),
					slog.Int("rows", len(rows)))
			}

			deleted, err = activity.DeleteOlderThan(ctx, cutoff)
			if err != nil {
				return fmt.Errorf("failed to delete expired activity: %w", err)
			}
		}

		userCount, err := users.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		submissionCount, err := submissions.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count submissions: %w", err)
		}

		slog.Info("Activity retention sweep complete",
			slog.String("type", "task"),
			slog.Int64("deleted", deleted),
			slog.Time("cutoff", cutoff),
			slog.Int("users", userCount),
			slog.Int("submissions", submissionCount))
		return nil
	}
}
