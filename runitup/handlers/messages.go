package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/mdevvx/official-runitup/runitup"
	"github.com/mdevvx/official-runitup/runitup/challenge"
	"github.com/mdevvx/official-runitup/runitup/config"
)

// MessageHandler tracks member messages for the daily activity point and
// registers posts in the value-drops channel.
func MessageHandler(b *runitup.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMessageCreate) {
		if e.Message.Author.Bot || e.Message.Author.System {
			return
		}
		if e.GuildID != b.Cfg.Challenge.GuildID {
			return
		}
		now := time.Now()
		if !b.Cfg.Challenge.Active(now) {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		discordID := e.Message.Author.ID.String()
		username := e.Message.Author.Username

		if err := b.Activity.RecordMessage(ctx, discordID, username, now); err != nil {
			slog.Error("Failed to record message activity",
				slog.String("discord_id", discordID),
				slog.Any("error", err))
		}

		if e.ChannelID != b.Cfg.Challenge.ValueDropsChannelID {
			return
		}

		err := b.Scorer.TrackPost(ctx, discordID, username, e.MessageID.String(), e.ChannelID.String(), now)
		if errors.Is(err, challenge.ErrDailyPostLimit) {
			enforcePostLimit(b, e)
			return
		}
		if err != nil {
			slog.Error("Failed to track value post",
				slog.String("discord_id", discordID),
				slog.String("message_id", e.MessageID.String()),
				slog.Any("error", err))
		}
	})
}

// enforcePostLimit deletes the over-limit message, drops a short-lived
// warning in the channel, and DMs the author.
func enforcePostLimit(b *runitup.Bot, e *events.GuildMessageCreate) {
	rest := b.Client.Rest()
	authorID := e.Message.Author.ID

	if err := rest.DeleteMessage(e.ChannelID, e.MessageID); err != nil {
		slog.Error("Failed to delete over-limit post",
			slog.String("message_id", e.MessageID.String()),
			slog.Any("error", err))
		return
	}

	warning := fmt.Sprintf("%s you've hit today's value drop limit (%d per day). Save it for tomorrow!",
		discord.UserMention(authorID), b.Cfg.Challenge.MaxValuePostsPerDay)

	warnMsg, err := rest.CreateMessage(e.ChannelID, discord.MessageCreate{Content: warning})
	if err == nil {
		channelID := e.ChannelID
		time.AfterFunc(config.WarningDeleteDelay, func() {
			if err := rest.DeleteMessage(channelID, warnMsg.ID); err != nil {
				slog.Debug("Failed to clean up limit warning", slog.Any("error", err))
			}
		})
	}

	// DM is best effort, members can close their DMs
	if dmChannel, err := rest.CreateDMChannel(authorID); err == nil {
		_, _ = rest.CreateMessage(dmChannel.ID(), discord.MessageCreate{
			Content: fmt.Sprintf("Your post in the value drops channel was removed because you already posted %d drops today. Your limit resets at midnight UTC.",
				b.Cfg.Challenge.MaxValuePostsPerDay),
		})
	}
}

// MessageDeleteHandler reverses whatever a deleted value post earned.
func MessageDeleteHandler(b *runitup.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMessageDelete) {
		if e.GuildID != b.Cfg.Challenge.GuildID || e.ChannelID != b.Cfg.Challenge.ValueDropsChannelID {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		if err := b.Scorer.RemovePost(ctx, e.MessageID.String()); err != nil {
			slog.Error("Failed to reverse deleted post",
				slog.String("message_id", e.MessageID.String()),
				slog.Any("error", err))
		}
	})
}
