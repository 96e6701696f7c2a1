package handlers

import (
	"context"
	"log/slog"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"

	"github.com/mdevvx/official-runitup/runitup"
	"github.com/mdevvx/official-runitup/runitup/config"
)

// PinsHandler diffs the channel's pinned set against tracked posts and
// settles the pin bonus both ways. The gateway pin event carries no
// message ID, so the diff is the only way to know what changed.
func PinsHandler(b *runitup.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildChannelPinsUpdate) {
		if e.GuildID != b.Cfg.Challenge.GuildID || e.ChannelID != b.Cfg.Challenge.ValueDropsChannelID {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		pinned, err := b.Client.Rest().GetPinnedMessages(e.ChannelID)
		if err != nil {
			slog.Error("Failed to fetch pinned messages",
				slog.String("channel_id", e.ChannelID.String()),
				slog.Any("error", err))
			return
		}

		pinnedSet := make(map[string]struct{}, len(pinned))
		for _, msg := range pinned {
			pinnedSet[msg.ID.String()] = struct{}{}
			if err := b.Scorer.SetPinned(ctx, msg.ID.String(), true); err != nil {
				slog.Error("Failed to apply pin bonus",
					slog.String("message_id", msg.ID.String()),
					slog.Any("error", err))
			}
		}

		tracked, err := b.ValuePostRepo.ListPinned(ctx, e.ChannelID.String())
		if err != nil {
			slog.Error("Failed to list tracked pinned posts", slog.Any("error", err))
			return
		}
		for _, post := range tracked {
			if _, still := pinnedSet[post.MessageID]; still {
				continue
			}
			if err := b.Scorer.SetPinned(ctx, post.MessageID, false); err != nil {
				slog.Error("Failed to reverse pin bonus",
					slog.String("message_id", post.MessageID),
					slog.Any("error", err))
			}
		}
	})
}
