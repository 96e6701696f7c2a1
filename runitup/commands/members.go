package commands

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/mdevvx/official-runitup/runitup"
	"github.com/mdevvx/official-runitup/runitup/config"
	"github.com/mdevvx/official-runitup/runitup/database/models"
	"github.com/mdevvx/official-runitup/runitup/utils"
)

var Points = discord.SlashCommandCreate{
	Name:        "points",
	Description: "📊 View your challenge points and recent activity",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Check another member instead",
		},
	},
}

func PointsHandler(b *runitup.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		target := e.User()
		if other, ok := e.SlashCommandInteractionData().OptUser("user"); ok {
			target = other
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		user, err := b.UserRepo.GetByDiscordID(ctx, target.ID.String())
		if errors.Is(err, sql.ErrNoRows) {
			user = &models.User{
				DiscordID: target.ID.String(),
				Username:  target.Username,
				Tier:      "OBSERVER",
			}
		} else if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Couldn't load those points right now. Try again.")
		}

		rank := 0
		if user.ID != 0 {
			rank, _ = b.UserRepo.Rank(ctx, user.ID)
		}

		history, err := b.HistoryRepo.GetRecent(ctx, user.ID, 5)
		if err != nil {
			history = nil
		}

		pending, _ := b.SubmissionRepo.CountByStatus(ctx, user.ID, models.SubmissionStatusPending)
		approved, _ := b.SubmissionRepo.CountByStatus(ctx, user.ID, models.SubmissionStatusApproved)

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{utils.BuildUserStatsEmbed(user, rank, history, pending, approved)},
		})
	}
}

var Leaderboard = discord.SlashCommandCreate{
	Name:        "leaderboard",
	Description: "🏆 See who's leading the challenge",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "limit",
			Description: "How many members to show (default 10)",
			MinValue:    intPtr(1),
			MaxValue:    intPtr(config.MaxLeaderboardLimit),
		},
	},
}

func LeaderboardHandler(b *runitup.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		limit := config.LeaderboardSize
		if value, ok := e.SlashCommandInteractionData().OptInt("limit"); ok {
			limit = value
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		users, err := b.UserRepo.GetTopUsers(ctx, limit)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Couldn't load the leaderboard right now. Try again.")
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{utils.BuildLeaderboardEmbed(users, time.Now())},
		})
	}
}

var MyTier = discord.SlashCommandCreate{
	Name:        "mytier",
	Description: "🪜 See where you sit on the tier ladder",
}

func MyTierHandler(b *runitup.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		user, err := b.UserRepo.GetByDiscordID(ctx, e.User().ID.String())
		if errors.Is(err, sql.ErrNoRows) {
			user = &models.User{
				DiscordID: e.User().ID.String(),
				Username:  e.User().Username,
				Tier:      "OBSERVER",
			}
		} else if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Couldn't load your tier right now. Try again.")
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{utils.BuildTierEmbed(user)},
		})
	}
}

func intPtr(v int) *int {
	return &v
}
