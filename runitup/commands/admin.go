package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/sahilm/fuzzy"

	"github.com/mdevvx/official-runitup/runitup"
	"github.com/mdevvx/official-runitup/runitup/config"
	"github.com/mdevvx/official-runitup/runitup/database/models"
	"github.com/mdevvx/official-runitup/runitup/utils"
)

var AddPoints = discord.SlashCommandCreate{
	Name:        "addpoints",
	Description: "➕ Award points to a member (admin)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Member to award",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: "Points to add",
			Required:    true,
			MinValue:    intPtr(1),
		},
		discord.ApplicationCommandOptionString{
			Name:        "reason",
			Description: "Why are they getting points?",
			Required:    true,
		},
	},
}

func AddPointsHandler(b *runitup.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !utils.HasAdminRole(e.Member(), b.Cfg.Challenge.AdminRoleID, b.Cfg.Challenge.ModRoleID) {
			return utils.EH.CreateErrorEmbed(e, "This one's for the mod team.")
		}

		data := e.SlashCommandInteractionData()
		target := data.User("user")
		amount := data.Int("amount")
		reason := utils.SanitizeInput(data.String("reason"))

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		user, err := b.Engine.UpdatePoints(ctx, target.ID.String(), target.Username, amount, reason)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Couldn't update points. Try again.")
		}

		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf(
			"Gave **%s** to %s. They now have **%d points** (%s).",
			utils.FormatPoints(amount), target.Username, user.TotalPoints, user.Tier))
	}
}

var RemovePoints = discord.SlashCommandCreate{
	Name:        "removepoints",
	Description: "➖ Remove points from a member (admin)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Member to deduct from",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: "Points to remove",
			Required:    true,
			MinValue:    intPtr(1),
		},
		discord.ApplicationCommandOptionString{
			Name:        "reason",
			Description: "Why are they losing points?",
			Required:    true,
		},
	},
}

func RemovePointsHandler(b *runitup.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !utils.HasAdminRole(e.Member(), b.Cfg.Challenge.AdminRoleID, b.Cfg.Challenge.ModRoleID) {
			return utils.EH.CreateErrorEmbed(e, "This one's for the mod team.")
		}

		data := e.SlashCommandInteractionData()
		target := data.User("user")
		amount := data.Int("amount")
		reason := utils.SanitizeInput(data.String("reason"))

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		current, err := b.UserRepo.GetByDiscordID(ctx, target.ID.String())
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("%s isn't on the board yet.", target.Username))
			}
			return utils.EH.CreateErrorEmbed(e, "Couldn't update points. Try again.")
		}
		if current.TotalPoints-amount < 0 {
			return utils.EH.CreateErrorEmbed(e, fmt.Sprintf(
				"%s only has **%d points**. Removing %d would go below zero.",
				target.Username, current.TotalPoints, amount))
		}

		user, err := b.Engine.UpdatePoints(ctx, target.ID.String(), target.Username, -amount, reason)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Couldn't update points. Try again.")
		}

		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf(
			"Removed **%d points** from %s. They now have **%d points** (%s).",
			amount, target.Username, user.TotalPoints, user.Tier))
	}
}

var SetPoints = discord.SlashCommandCreate{
	Name:        "setpoints",
	Description: "🎯 Set a member's total outright (admin)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Member to update",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "total",
			Description: "New point total",
			Required:    true,
			MinValue:    intPtr(0),
		},
		discord.ApplicationCommandOptionString{
			Name:        "reason",
			Description: "Why the correction?",
		},
	},
}

func SetPointsHandler(b *runitup.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !utils.HasAdminRole(e.Member(), b.Cfg.Challenge.AdminRoleID, b.Cfg.Challenge.ModRoleID) {
			return utils.EH.CreateErrorEmbed(e, "This one's for the mod team.")
		}

		data := e.SlashCommandInteractionData()
		target := data.User("user")
		total := data.Int("total")
		reason := "Admin correction"
		if value, ok := data.OptString("reason"); ok {
			reason = utils.SanitizeInput(value)
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		user, err := b.Engine.SetPoints(ctx, target.ID.String(), target.Username, total, reason)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Couldn't update points. Try again.")
		}

		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf(
			"Set %s to **%d points** (%s).", target.Username, user.TotalPoints, user.Tier))
	}
}

var ViewUser = discord.SlashCommandCreate{
	Name:        "viewuser",
	Description: "🔎 Inspect a member's full challenge record (admin)",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "username",
			Description:  "Member to inspect",
			Required:     true,
			Autocomplete: true,
		},
	},
}

func ViewUserHandler(b *runitup.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !utils.HasAdminRole(e.Member(), b.Cfg.Challenge.AdminRoleID, b.Cfg.Challenge.ModRoleID) {
			return utils.EH.CreateErrorEmbed(e, "This one's for the mod team.")
		}

		query := e.SlashCommandInteractionData().String("username")

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		user, err := b.UserRepo.GetByDiscordID(ctx, query)
		if err != nil {
			user, err = findUserByName(ctx, b, query)
		}
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("No member matching `%s` on the board.", query))
		}

		rank, _ := b.UserRepo.Rank(ctx, user.ID)
		history, err := b.HistoryRepo.GetRecent(ctx, user.ID, maxHistoryEntries)
		if err != nil {
			history = nil
		}
		pending, _ := b.SubmissionRepo.CountByStatus(ctx, user.ID, models.SubmissionStatusPending)
		approved, _ := b.SubmissionRepo.CountByStatus(ctx, user.ID, models.SubmissionStatusApproved)

		recent := history
		if len(recent) > 5 {
			recent = recent[:5]
		}
		statsEmbed := utils.BuildUserStatsEmbed(user, rank, recent, pending, approved)

		if len(history) <= 5 {
			return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{statsEmbed}})
		}

		// Page 0 is the stat card, the rest walk the full ledger.
		historyPages := (len(history) + historyPerPage - 1) / historyPerPage
		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				if page == 0 {
					embed.Embed = statsEmbed
					return
				}
				startIdx := (page - 1) * historyPerPage
				endIdx := min(startIdx+historyPerPage, len(history))

				var sb strings.Builder
				for _, entry := range history[startIdx:endIdx] {
					sb.WriteString(fmt.Sprintf("`%s` %s — %s\n",
						utils.FormatPoints(entry.PointsChange),
						entry.Reason,
						entry.CreatedAt.UTC().Format("Jan 2 15:04")))
				}
				embed.
					SetTitle(fmt.Sprintf("📜 Points History — %s", user.Username)).
					SetDescription(sb.String()).
					SetColor(config.InfoColor).
					SetFooterText(fmt.Sprintf("%d entries", len(history)))
			},
			Pages:      historyPages + 1,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

// findUserByName falls back to fuzzy matching when the option value
// wasn't picked from autocomplete.
func findUserByName(ctx context.Context, b *runitup.Bot, query string) (*models.User, error) {
	users, err := b.UserRepo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(users))
	for i, user := range users {
		names[i] = user.Username
	}

	matches := fuzzy.Find(query, names)
	if len(matches) == 0 {
		return nil, sql.ErrNoRows
	}
	return users[matches[0].Index], nil
}

func ViewUserAutocompleteHandler(b *runitup.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		focused := e.Data.Focused()
		if focused.Name != "username" {
			return nil
		}

		query := strings.TrimSpace(e.Data.String("username"))

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		users, err := b.UserRepo.GetUsers(ctx)
		if err != nil {
			return e.AutocompleteResult([]discord.AutocompleteChoice{})
		}

		choices := make([]discord.AutocompleteChoice, 0, 25)
		if query == "" {
			for _, user := range users {
				if len(choices) == 25 {
					break
				}
				choices = append(choices, discord.AutocompleteChoiceString{
					Name:  user.Username,
					Value: user.DiscordID,
				})
			}
			return e.AutocompleteResult(choices)
		}

		names := make([]string, len(users))
		for i, user := range users {
			names[i] = user.Username
		}
		for _, match := range fuzzy.Find(query, names) {
			if len(choices) == 25 {
				break
			}
			user := users[match.Index]
			choices = append(choices, discord.AutocompleteChoiceString{
				Name:  user.Username,
				Value: user.DiscordID,
			})
		}

		return e.AutocompleteResult(choices)
	}
}

var UpdateLeaderboard = discord.SlashCommandCreate{
	Name:        "updateleaderboard",
	Description: "🔁 Repost the leaderboard right now (admin)",
}

func UpdateLeaderboardHandler(b *runitup.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !utils.HasAdminRole(e.Member(), b.Cfg.Challenge.AdminRoleID, b.Cfg.Challenge.ModRoleID) {
			return utils.EH.CreateErrorEmbed(e, "This one's for the mod team.")
		}

		if err := e.DeferCreateMessage(true); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := b.Leaderboard.Repost(ctx); err != nil {
			_, updateErr := e.UpdateInteractionResponse(discord.MessageUpdate{
				Content: strPtr("❌ Leaderboard repost failed. Check the logs."),
			})
			if updateErr != nil {
				return updateErr
			}
			return err
		}

		_, err := e.UpdateInteractionResponse(discord.MessageUpdate{
			Content: strPtr("✅ Leaderboard reposted."),
		})
		return err
	}
}

var PendingSubmissions = discord.SlashCommandCreate{
	Name:        "pendingsubmissions",
	Description: "📋 Browse the review queue (admin)",
}

const (
	submissionsPerPage = 5
	historyPerPage     = 10
	maxHistoryEntries  = 100
)

func PendingSubmissionsHandler(b *runitup.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !utils.HasAdminRole(e.Member(), b.Cfg.Challenge.AdminRoleID, b.Cfg.Challenge.ModRoleID) {
			return utils.EH.CreateErrorEmbed(e, "This one's for the mod team.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		pending, err := b.SubmissionRepo.GetPending(ctx)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Couldn't load the review queue. Try again.")
		}
		if len(pending) == 0 {
			return utils.EH.CreateInfoEmbed(e, "The review queue is empty. 🎉")
		}

		usernames := make(map[int64]string, len(pending))
		for _, submission := range pending {
			if _, ok := usernames[submission.UserID]; ok {
				continue
			}
			if user, err := b.UserRepo.GetByID(ctx, submission.UserID); err == nil {
				usernames[submission.UserID] = user.Username
			} else {
				usernames[submission.UserID] = "unknown"
			}
		}

		totalPages := (len(pending) + submissionsPerPage - 1) / submissionsPerPage

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				startIdx := page * submissionsPerPage
				endIdx := min(startIdx+submissionsPerPage, len(pending))

				var description strings.Builder
				for _, submission := range pending[startIdx:endIdx] {
					description.WriteString(formatPendingLine(submission, usernames[submission.UserID]))
				}

				embed.
					SetTitle("📋 Pending Submissions").
					SetDescription(description.String()).
					SetColor(config.WarningColor).
					SetFooterText(fmt.Sprintf("%d waiting for review", len(pending)))
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func formatPendingLine(submission *models.Submission, username string) string {
	age := time.Since(submission.CreatedAt).Round(time.Minute)
	switch submission.Type {
	case models.SubmissionTypeWin:
		return fmt.Sprintf("`#%d` 💰 **%s** — $%.2f win (%s ago)\n", submission.ID, username, submission.Amount, age)
	case models.SubmissionTypeReferral:
		return fmt.Sprintf("`#%d` 🤝 **%s** — %s referral (%s ago)\n", submission.ID, username, submission.ReferralType, age)
	case models.SubmissionTypeScalerApplication:
		return fmt.Sprintf("`#%d` 💼 **%s** — Scaler application (%s ago)\n", submission.ID, username, age)
	default:
		return fmt.Sprintf("`#%d` **%s** — %s (%s ago)\n", submission.ID, username, submission.Type, age)
	}
}

func strPtr(s string) *string {
	return &s
}
