package utils

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"

	"github.com/mdevvx/official-runitup/runitup/challenge"
	"github.com/mdevvx/official-runitup/runitup/config"
	"github.com/mdevvx/official-runitup/runitup/database/models"
)

var rankMedals = map[int]string{1: "🥇", 2: "🥈", 3: "🥉"}

// BuildLeaderboardEmbed renders the top users as ranked lines.
func BuildLeaderboardEmbed(users []*models.User, generatedAt time.Time) discord.Embed {
	var sb strings.Builder
	for i, user := range users {
		rank := i + 1
		medal, ok := rankMedals[rank]
		if !ok {
			medal = fmt.Sprintf("`#%d`", rank)
		}
		tier := challenge.TierFor(user.TotalPoints)
		sb.WriteString(fmt.Sprintf("%s %s **%s** — %d pts\n", medal, tier.Emoji, user.Username, user.TotalPoints))
	}
	if len(users) == 0 {
		sb.WriteString("No points on the board yet. Go drop some value!")
	}

	return discord.NewEmbedBuilder().
		SetTitle("🏆 Challenge Leaderboard").
		SetDescription(sb.String()).
		SetColor(config.GoldColor).
		SetFooterText(fmt.Sprintf("Updated %s", generatedAt.UTC().Format("Jan 2 15:04 UTC"))).
		Build()
}

// BuildUserStatsEmbed renders a member's points, tier, and recent
// history. A rank of 0 means unranked and hides the field.
func BuildUserStatsEmbed(user *models.User, rank int, history []*models.PointsHistory, pending, approved int) discord.Embed {
	tier := challenge.TierFor(user.TotalPoints)

	builder := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("%s %s", tier.Emoji, user.Username)).
		SetColor(config.InfoColor).
		AddField("Points", fmt.Sprintf("%d", user.TotalPoints), true).
		AddField("Tier", tier.Name, true).
		AddField("Referrals", fmt.Sprintf("%d", user.ReferralCount), true)

	if rank > 0 {
		builder.AddField("Rank", fmt.Sprintf("#%d", rank), true)
	}

	if user.IsScaler {
		builder.AddField("Status", "💼 Scaler", true)
	}
	if pending > 0 || approved > 0 {
		builder.AddField("Submissions", fmt.Sprintf("%d pending / %d approved", pending, approved), true)
	}

	if len(history) > 0 {
		var sb strings.Builder
		for _, entry := range history {
			sb.WriteString(fmt.Sprintf("`%s` %s — %s\n",
				FormatPoints(entry.PointsChange),
				entry.Reason,
				entry.CreatedAt.UTC().Format("Jan 2")))
		}
		builder.AddField("Recent Activity", sb.String(), false)
	}

	return builder.Build()
}

// BuildTierEmbed shows a member where they sit on the ladder and what the
// next rung costs.
func BuildTierEmbed(user *models.User) discord.Embed {
	current := challenge.TierFor(user.TotalPoints)

	var sb strings.Builder
	for _, t := range challenge.Tiers {
		marker := "·"
		if t.Name == current.Name {
			marker = "▶"
		}
		if t.Max == math.MaxInt {
			sb.WriteString(fmt.Sprintf("%s %s **%s** — %d+ pts\n", marker, t.Emoji, t.Name, t.Min))
		} else {
			sb.WriteString(fmt.Sprintf("%s %s **%s** — %d–%d pts\n", marker, t.Emoji, t.Name, t.Min, t.Max))
		}
	}

	builder := discord.NewEmbedBuilder().
		SetTitle("Tier Ladder").
		SetDescription(sb.String()).
		SetColor(config.InfoColor).
		AddField("Your Points", fmt.Sprintf("%d", user.TotalPoints), true)

	if next, ok := nextTier(current); ok {
		builder.AddField("Next Tier", fmt.Sprintf("%s in %d pts", next.Name, next.Min-user.TotalPoints), true)
	} else {
		builder.AddField("Next Tier", "You're at the top 🎉", true)
	}

	return builder.Build()
}

func nextTier(current challenge.Tier) (challenge.Tier, bool) {
	for i, t := range challenge.Tiers {
		if t.Name == current.Name && i+1 < len(challenge.Tiers) {
			return challenge.Tiers[i+1], true
		}
	}
	return challenge.Tier{}, false
}

// BuildSubmissionEmbed renders one submission for the admin review queue.
func BuildSubmissionEmbed(submission *models.Submission, username string) discord.Embed {
	builder := discord.NewEmbedBuilder().
		SetTitle(submissionTitle(submission)).
		SetColor(config.WarningColor).
		AddField("Submitted By", username, true).
		AddField("Submission ID", fmt.Sprintf("#%d", submission.ID), true).
		SetTimestamp(submission.CreatedAt)

	switch submission.Type {
	case models.SubmissionTypeWin:
		builder.AddField("Amount", fmt.Sprintf("$%.2f", submission.Amount), true).
			AddField("Points on Approval", fmt.Sprintf("%d", challenge.WinAward(submission.Amount)), true)
	case models.SubmissionTypeReferral:
		builder.AddField("Referral Type", submission.ReferralType, true).
			AddField("Points on Approval", fmt.Sprintf("%d", challenge.ReferralAward(submission.ReferralType)), true)
	}

	if submission.Description != "" {
		builder.AddField("Description", submission.Description, false)
	}
	if submission.ProofURL != "" {
		builder.AddField("Proof", submission.ProofURL, false)
	}

	return builder.Build()
}

func submissionTitle(submission *models.Submission) string {
	switch submission.Type {
	case models.SubmissionTypeWin:
		return "💰 Win Submission"
	case models.SubmissionTypeReferral:
		return "🤝 Referral Submission"
	case models.SubmissionTypeScalerApplication:
		return "💼 Scaler Application"
	default:
		return "Submission"
	}
}
