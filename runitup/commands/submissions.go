package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/mdevvx/official-runitup/runitup"
	"github.com/mdevvx/official-runitup/runitup/challenge"
	"github.com/mdevvx/official-runitup/runitup/components"
	"github.com/mdevvx/official-runitup/runitup/config"
	"github.com/mdevvx/official-runitup/runitup/database/models"
	"github.com/mdevvx/official-runitup/runitup/utils"
)

var SubmitWin = discord.SlashCommandCreate{
	Name:        "submitwin",
	Description: "💰 Submit a revenue win for review",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "amount",
			Description: "Revenue amount in dollars, e.g. 1,250 or $500",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "description",
			Description: "What did you sell and how?",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "proof",
			Description: "Link to a screenshot of the payment, if you have one",
		},
	},
}

func SubmitWinHandler(b *runitup.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()

		amount, err := utils.ParseAmount(data.String("amount"))
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "That amount doesn't look right. Use a plain number like `1250` or `$1,250`.")
		}

		proof := ""
		if value, ok := data.OptString("proof"); ok {
			if !utils.ValidateURL(value) {
				return utils.EH.CreateErrorEmbed(e, "Proof must be a link (https://...) to your payment screenshot.")
			}
			proof = value
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		user, err := b.UserRepo.GetOrCreate(ctx, e.User().ID.String(), e.User().Username)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Couldn't save your submission right now. Try again.")
		}

		submission := &models.Submission{
			UserID:      user.ID,
			Type:        models.SubmissionTypeWin,
			Description: utils.SanitizeInput(data.String("description")),
			ProofURL:    proof,
			Amount:      amount,
		}
		if err := b.SubmissionRepo.Create(ctx, submission); err != nil {
			return utils.EH.CreateErrorEmbed(e, "Couldn't save your submission right now. Try again.")
		}

		postForReview(b, submission, user.Username)

		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf(
			"Win of **$%.2f** submitted! You'll earn **%d points** once a mod approves it.",
			amount, challenge.WinAward(amount)))
	}
}

var SubmitReferral = discord.SlashCommandCreate{
	Name:        "submitreferral",
	Description: "🤝 Submit a referral for review",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "type",
			Description: "Where did you refer them?",
			Required:    true,
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "Whop", Value: models.ReferralTypeWhop},
				{Name: "Discord", Value: models.ReferralTypeDiscord},
			},
		},
		discord.ApplicationCommandOptionString{
			Name:        "username",
			Description: "Who did you refer?",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "proof",
			Description: "Link to a screenshot, if you have one",
		},
	},
}

func SubmitReferralHandler(b *runitup.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()

		proof := ""
		if value, ok := data.OptString("proof"); ok {
			if !utils.ValidateURL(value) {
				return utils.EH.CreateErrorEmbed(e, "Proof must be a link (https://...).")
			}
			proof = value
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		user, err := b.UserRepo.GetOrCreate(ctx, e.User().ID.String(), e.User().Username)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Couldn't save your submission right now. Try again.")
		}

		if challenge.ReferralLimitReached(user, b.Cfg.Challenge.MaxReferrals) {
			return utils.EH.CreateErrorEmbed(e, fmt.Sprintf(
				"You've hit the referral cap (%d approved referrals). Great hustle though!",
				b.Cfg.Challenge.MaxReferrals))
		}

		referralType := data.String("type")
		submission := &models.Submission{
			UserID:       user.ID,
			Type:         models.SubmissionTypeReferral,
			Description:  utils.SanitizeInput(data.String("username")),
			ProofURL:     proof,
			ReferralType: referralType,
		}
		if err := b.SubmissionRepo.Create(ctx, submission); err != nil {
			return utils.EH.CreateErrorEmbed(e, "Couldn't save your submission right now. Try again.")
		}

		postForReview(b, submission, user.Username)

		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf(
			"Referral submitted! You'll earn **%d points** once a mod approves it.",
			challenge.ReferralAward(referralType)))
	}
}

var ApplyScaler = discord.SlashCommandCreate{
	Name:        "applyscaler",
	Description: "💼 Apply for the Scaler role",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "pitch",
			Description: "Why do you qualify? Include your numbers.",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "proof",
			Description: "Link to revenue proof",
			Required:    true,
		},
	},
}

func ApplyScalerHandler(b *runitup.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()

		proof := data.String("proof")
		if !utils.ValidateURL(proof) {
			return utils.EH.CreateErrorEmbed(e, "Proof must be a link (https://...) to your revenue screenshot.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		user, err := b.UserRepo.GetOrCreate(ctx, e.User().ID.String(), e.User().Username)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Couldn't save your application right now. Try again.")
		}

		if user.IsScaler {
			return utils.EH.CreateErrorEmbed(e, "You're already a Scaler. 💼")
		}

		pendingCount, err := b.SubmissionRepo.CountByStatus(ctx, user.ID, models.SubmissionStatusPending)
		if err == nil && pendingCount > 0 {
			pending, listErr := b.SubmissionRepo.GetByUserID(ctx, user.ID)
			if listErr == nil {
				for _, s := range pending {
					if s.Type == models.SubmissionTypeScalerApplication && s.Status == models.SubmissionStatusPending {
						return utils.EH.CreateErrorEmbed(e, "You already have a Scaler application waiting for review.")
					}
				}
			}
		}

		submission := &models.Submission{
			UserID:      user.ID,
			Type:        models.SubmissionTypeScalerApplication,
			Description: utils.SanitizeInput(data.String("pitch")),
			ProofURL:    proof,
		}
		if err := b.SubmissionRepo.Create(ctx, submission); err != nil {
			return utils.EH.CreateErrorEmbed(e, "Couldn't save your application right now. Try again.")
		}

		postForReview(b, submission, user.Username)

		return utils.EH.CreateSuccessEmbed(e, "Scaler application submitted! The mod team will take a look.")
	}
}

// postForReview drops the submission into the review channel with the
// approve/reject buttons attached.
func postForReview(b *runitup.Bot, submission *models.Submission, username string) {
	_, err := b.Client.Rest().CreateMessage(b.Cfg.Challenge.SubmissionsChannelID, discord.MessageCreate{
		Embeds:     []discord.Embed{utils.BuildSubmissionEmbed(submission, username)},
		Components: []discord.ContainerComponent{components.ReviewButtons(submission.ID, false)},
	})
	if err != nil {
		slog.Error("Failed to post submission for review",
			slog.Int64("submission_id", submission.ID),
			slog.Any("error", err))
	}
}
