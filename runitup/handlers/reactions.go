package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/mdevvx/official-runitup/runitup"
	"github.com/mdevvx/official-runitup/runitup/config"
)

// ReactionAddHandler rescores a value post when a tracked emoji lands.
func ReactionAddHandler(b *runitup.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMessageReactionAdd) {
		handleReactionChange(b, e.GuildID, e.ChannelID, e.MessageID, e.Emoji.Name)
	})
}

// ReactionRemoveHandler rescores a value post when a tracked emoji is
// withdrawn.
func ReactionRemoveHandler(b *runitup.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMessageReactionRemove) {
		handleReactionChange(b, e.GuildID, e.ChannelID, e.MessageID, e.Emoji.Name)
	})
}

// handleReactionChange refetches the live message and applies its full
// reaction snapshot. Working from absolute counts keeps the score right
// even when gateway events arrive out of order or twice.
func handleReactionChange(b *runitup.Bot, guildID, channelID, messageID snowflake.ID, emojiName *string) {
	if guildID != b.Cfg.Challenge.GuildID || channelID != b.Cfg.Challenge.ValueDropsChannelID {
		return
	}
	if emojiName == nil || !trackedEmoji(*emojiName) {
		return
	}
	if !b.Cfg.Challenge.Active(time.Now()) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
	defer cancel()

	if !b.Scorer.Tracked(ctx, messageID.String()) {
		return
	}

	msg, err := b.Client.Rest().GetMessage(channelID, messageID)
	if err != nil {
		slog.Error("Failed to fetch message for rescoring",
			slog.String("message_id", messageID.String()),
			slog.Any("error", err))
		return
	}

	var fire, gem, hundred int
	for _, reaction := range msg.Reactions {
		if reaction.Emoji.Name == "" {
			continue
		}
		switch reaction.Emoji.Name {
		case config.EmojiFire:
			fire = reaction.Count
		case config.EmojiGem:
			gem = reaction.Count
		case config.EmojiHundred:
			hundred = reaction.Count
		}
	}

	if err := b.Scorer.ApplySnapshot(ctx, messageID.String(), fire, gem, hundred); err != nil {
		slog.Error("Failed to apply reaction snapshot",
			slog.String("message_id", messageID.String()),
			slog.Any("error", err))
	}
}

func trackedEmoji(name string) bool {
	switch name {
	case config.EmojiFire, config.EmojiGem, config.EmojiHundred:
		return true
	}
	return false
}
