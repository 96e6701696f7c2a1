package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/mdevvx/official-runitup/runitup/config"
	"github.com/mdevvx/official-runitup/runitup/database/models"
	"github.com/mdevvx/official-runitup/runitup/database/repositories"
	"github.com/mdevvx/official-runitup/runitup/utils"
)

// LeaderboardService reposts the standings to the leaderboard channel,
// replacing the bot's previous messages so the channel holds one board.
type LeaderboardService struct {
	client    bot.Client
	users     repositories.UserRepository
	images    *LeaderboardImageService
	channelID snowflake.ID
}

func NewLeaderboardService(client bot.Client, users repositories.UserRepository, images *LeaderboardImageService, channelID snowflake.ID) *LeaderboardService {
	return &LeaderboardService{
		client:    client,
		users:     users,
		images:    images,
		channelID: channelID,
	}
}

// Repost deletes the bot's old leaderboard messages and posts the
// current standings, preferring the rendered image over a plain embed.
func (s *LeaderboardService) Repost(ctx context.Context) error {
	users, err := s.users.GetTopUsers(ctx, config.LeaderboardSize)
	if err != nil {
		return fmt.Errorf("failed to load top users: %w", err)
	}

	s.deleteOldMessages(ctx)

	if len(users) > 0 && s.images != nil {
		if imageBytes, imgErr := s.images.Generate(ctx, users); imgErr == nil {
			return s.postImage(ctx, imageBytes)
		} else {
			slog.Warn("Leaderboard image generation failed, falling back to embed",
				slog.String("type", "task"),
				slog.Any("error", imgErr))
		}
	}

	return s.postEmbed(ctx, users)
}

func (s *LeaderboardService) deleteOldMessages(ctx context.Context) {
	messages, err := s.client.Rest().GetMessages(s.channelID, 0, 0, 0, 50)
	if err != nil {
		slog.Warn("Failed to list leaderboard channel messages",
			slog.String("type", "task"),
			slog.Any("error", err))
		return
	}

	for _, msg := range messages {
		if msg.Author.ID != s.client.ID() {
			continue
		}
		if err := s.client.Rest().DeleteMessage(s.channelID, msg.ID); err != nil {
			slog.Warn("Failed to delete old leaderboard message",
				slog.String("type", "task"),
				slog.String("message_id", msg.ID.String()),
				slog.Any("error", err))
		}
	}
}

func (s *LeaderboardService) postImage(ctx context.Context, imageBytes []byte) error {
	_, err := s.client.Rest().CreateMessage(s.channelID, discord.MessageCreate{
		Files: []*discord.File{
			discord.NewFile("leaderboard.png", "", bytes.NewReader(imageBytes)),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to post leaderboard image: %w", err)
	}
	return nil
}

func (s *LeaderboardService) postEmbed(ctx context.Context, users []*models.User) error {
	embed := utils.BuildLeaderboardEmbed(users, time.Now())
	_, err := s.client.Rest().CreateMessage(s.channelID, discord.MessageCreate{
		Embeds: []discord.Embed{embed},
	})
	if err != nil {
		return fmt.Errorf("failed to post leaderboard embed: %w", err)
	}
	return nil
}
