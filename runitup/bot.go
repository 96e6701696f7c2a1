package runitup

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"

	"github.com/mdevvx/official-runitup/runitup/challenge"
	"github.com/mdevvx/official-runitup/runitup/database"
	"github.com/mdevvx/official-runitup/runitup/database/repositories"
	"github.com/mdevvx/official-runitup/runitup/services"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
	}
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string

	DB             *database.DB
	UserRepo       repositories.UserRepository
	HistoryRepo    repositories.PointsHistoryRepository
	SubmissionRepo repositories.SubmissionRepository
	ValuePostRepo  repositories.ValuePostRepository
	ActivityRepo   repositories.DailyActivityRepository

	Engine      *challenge.Engine
	Reviews     *challenge.ReviewService
	Activity    *challenge.ActivityTracker
	Scorer      *challenge.PostScorer
	Leaderboard *services.LeaderboardService
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(
			gateway.IntentGuilds,
			gateway.IntentGuildMessages,
			gateway.IntentMessageContent,
			gateway.IntentGuildMessageReactions,
			gateway.IntentGuildMembers,
		)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("RunItUp Bot is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("the challenge leaderboard"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}
