package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/mdevvx/official-runitup/runitup"
	"github.com/mdevvx/official-runitup/runitup/challenge"
	"github.com/mdevvx/official-runitup/runitup/config"
	"github.com/mdevvx/official-runitup/runitup/database/models"
	"github.com/mdevvx/official-runitup/runitup/utils"
)

// ReviewButtons builds the approve/reject row attached to a submission
// in the review channel.
func ReviewButtons(submissionID int64, disabled bool) discord.ContainerComponent {
	approve := discord.NewSuccessButton("Approve", fmt.Sprintf("/submission/approve/%d", submissionID))
	reject := discord.NewDangerButton("Reject", fmt.Sprintf("/submission/reject/%d", submissionID))
	if disabled {
		approve = approve.AsDisabled()
		reject = reject.AsDisabled()
	}
	return discord.NewActionRow(approve, reject)
}

// SubmissionReviewHandler resolves approve/reject button clicks. The
// route carries the action and submission ID: /submission/{action}/{id}.
func SubmissionReviewHandler(b *runitup.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		if !utils.HasAdminRole(e.Member(), b.Cfg.Challenge.AdminRoleID, b.Cfg.Challenge.ModRoleID) {
			return utils.EH.CreateEphemeralError(e, "Only challenge admins can review submissions.")
		}

		action := e.Vars["action"]
		submissionID, err := strconv.ParseInt(e.Vars["id"], 10, 64)
		if err != nil {
			return utils.EH.CreateEphemeralError(e, "Malformed submission reference.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		reviewerID := e.User().ID.String()

		var (
			submission *models.Submission
			user       *models.User
		)
		switch action {
		case "approve":
			submission, user, err = b.Reviews.Approve(ctx, submissionID, reviewerID)
		case "reject":
			submission, err = b.Reviews.Reject(ctx, submissionID, reviewerID)
		default:
			return utils.EH.CreateEphemeralError(e, "Unknown review action.")
		}

		if errors.Is(err, challenge.ErrAlreadyReviewed) {
			return utils.EH.CreateEphemeralError(e, "This submission was already reviewed by someone else.")
		}
		if err != nil {
			slog.Error("Submission review failed",
				slog.Int64("submission_id", submissionID),
				slog.String("action", action),
				slog.Any("error", err))
			return utils.EH.CreateEphemeralError(e, "Something went wrong while reviewing. Try again.")
		}

		embed := reviewResultEmbed(e.Message.Embeds, submission, reviewerID)
		if err := e.UpdateMessage(discord.MessageUpdate{
			Embeds:     &[]discord.Embed{embed},
			Components: &[]discord.ContainerComponent{ReviewButtons(submissionID, true)},
		}); err != nil {
			return err
		}

		if submission.Status == models.SubmissionStatusApproved && submission.Type == models.SubmissionTypeScalerApplication {
			grantScalerRole(b, user)
		}

		notifySubmitter(b, submission, user)
		return nil
	}
}

// grantScalerRole attaches the Scaler role to an approved applicant. The
// role is looked up by name so the server can recreate it freely.
func grantScalerRole(b *runitup.Bot, user *models.User) {
	if user == nil {
		return
	}
	memberID, err := snowflake.Parse(user.DiscordID)
	if err != nil {
		return
	}

	roles, err := b.Client.Rest().GetRoles(b.Cfg.Challenge.GuildID)
	if err != nil {
		slog.Error("Failed to list guild roles for scaler grant", slog.Any("error", err))
		return
	}

	for _, role := range roles {
		if role.Name != config.ScalerRoleName {
			continue
		}
		if err := b.Client.Rest().AddMemberRole(b.Cfg.Challenge.GuildID, memberID, role.ID); err != nil {
			slog.Error("Failed to grant scaler role",
				slog.String("discord_id", user.DiscordID),
				slog.Any("error", err))
		}
		return
	}

	slog.Warn("Scaler role not found in guild", slog.String("role_name", config.ScalerRoleName))
}

func reviewResultEmbed(existing []discord.Embed, submission *models.Submission, reviewerID string) discord.Embed {
	var builder *discord.EmbedBuilder
	if len(existing) > 0 {
		builder = discord.NewEmbedBuilder()
		builder.Embed = existing[0]
	} else {
		builder = discord.NewEmbedBuilder().SetTitle(fmt.Sprintf("Submission #%d", submission.ID))
	}

	if submission.Status == models.SubmissionStatusApproved {
		builder.SetColor(config.SuccessColor).
			AddField("Result", fmt.Sprintf("✅ Approved by <@%s> (%s)", reviewerID, utils.FormatPoints(submission.PointsAwarded)), false)
	} else {
		builder.SetColor(config.ErrorColor).
			AddField("Result", fmt.Sprintf("❌ Rejected by <@%s>", reviewerID), false)
	}
	return builder.Build()
}

// notifySubmitter DMs the submitter with the outcome. Best effort only.
func notifySubmitter(b *runitup.Bot, submission *models.Submission, user *models.User) {
	var discordID string
	if user != nil {
		discordID = user.DiscordID
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()
		loaded, err := b.UserRepo.GetByID(ctx, submission.UserID)
		if err != nil {
			return
		}
		discordID = loaded.DiscordID
	}

	id, err := snowflake.Parse(discordID)
	if err != nil {
		return
	}

	dmChannel, err := b.Client.Rest().CreateDMChannel(id)
	if err != nil {
		return
	}
	_, _ = b.Client.Rest().CreateMessage(dmChannel.ID(), discord.MessageCreate{
		Content: submitterMessage(submission),
	})
}

func submitterMessage(submission *models.Submission) string {
	if submission.Status == models.SubmissionStatusApproved {
		switch submission.Type {
		case models.SubmissionTypeScalerApplication:
			return "🎉 Your Scaler application was approved! The Scaler role is yours."
		case models.SubmissionTypeWin:
			return fmt.Sprintf("🎉 Your win submission was approved! You earned %d points.", submission.PointsAwarded)
		default:
			return fmt.Sprintf("🎉 Your %s submission was approved! You earned %d points.", submission.Type, submission.PointsAwarded)
		}
	}
	return fmt.Sprintf("Your %s submission was reviewed and not approved this time. Reach out to the mod team if you have questions.", submission.Type)
}
