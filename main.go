package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"

	"github.com/mdevvx/official-runitup/runitup"
	"github.com/mdevvx/official-runitup/runitup/challenge"
	"github.com/mdevvx/official-runitup/runitup/commands"
	"github.com/mdevvx/official-runitup/runitup/components"
	"github.com/mdevvx/official-runitup/runitup/config"
	"github.com/mdevvx/official-runitup/runitup/database"
	"github.com/mdevvx/official-runitup/runitup/database/repositories"
	"github.com/mdevvx/official-runitup/runitup/handlers"
	"github.com/mdevvx/official-runitup/runitup/logger"
	"github.com/mdevvx/official-runitup/runitup/scheduler"
	"github.com/mdevvx/official-runitup/runitup/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting RunItUp Discord Bot",
		slog.String("version", version),
		slog.String("commit", commit))

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := runitup.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	slog.Info("Initializing database schema...")
	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	slog.Info("Database schema initialized successfully")

	defer db.Close()

	b := runitup.New(*cfg, version, commit)
	b.DB = db

	b.UserRepo = repositories.NewUserRepository(db.BunDB())
	b.HistoryRepo = repositories.NewPointsHistoryRepository(db.BunDB())
	b.SubmissionRepo = repositories.NewSubmissionRepository(db.BunDB())
	b.ValuePostRepo = repositories.NewValuePostRepository(db.BunDB())
	b.ActivityRepo = repositories.NewDailyActivityRepository(db.BunDB())

	b.Engine = challenge.NewEngine(b.UserRepo, b.HistoryRepo)
	b.Reviews = challenge.NewReviewService(b.SubmissionRepo, b.UserRepo, b.Engine)
	b.Activity = challenge.NewActivityTracker(b.ActivityRepo, b.UserRepo, b.Engine)
	b.Scorer = challenge.NewPostScorer(b.ValuePostRepo, b.UserRepo, b.Engine,
		cfg.Challenge.MaxValuePostsPerDay, cfg.Challenge.MaxPointsPerPost)

	var archiver *services.ActivityArchiver
	if cfg.Spaces.Key != "" {
		archiver = services.NewActivityArchiver(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.ArchivePrefix,
		)
	} else {
		slog.Warn("Spaces credentials missing, activity retention will delete without archiving")
	}

	h := handler.New()

	// Member commands
	h.Command("/points", handlers.WrapWithLogging("points", commands.PointsHandler(b)))
	h.Command("/leaderboard", handlers.WrapWithLogging("leaderboard", commands.LeaderboardHandler(b)))
	h.Command("/mytier", handlers.WrapWithLogging("mytier", commands.MyTierHandler(b)))

	// Submission commands
	h.Command("/submitwin", handlers.WrapWithLogging("submitwin", commands.SubmitWinHandler(b)))
	h.Command("/submitreferral", handlers.WrapWithLogging("submitreferral", commands.SubmitReferralHandler(b)))
	h.Command("/applyscaler", handlers.WrapWithLogging("applyscaler", commands.ApplyScalerHandler(b)))

	// Admin commands
	h.Command("/addpoints", handlers.WrapWithLogging("addpoints", commands.AddPointsHandler(b)))
	h.Command("/removepoints", handlers.WrapWithLogging("removepoints", commands.RemovePointsHandler(b)))
	h.Command("/setpoints", handlers.WrapWithLogging("setpoints", commands.SetPointsHandler(b)))
	h.Command("/viewuser", handlers.WrapWithLogging("viewuser", commands.ViewUserHandler(b)))
	h.Autocomplete("/viewuser", commands.ViewUserAutocompleteHandler(b))
	h.Command("/updateleaderboard", handlers.WrapWithLogging("updateleaderboard", commands.UpdateLeaderboardHandler(b)))
	h.Command("/pendingsubmissions", handlers.WrapWithLogging("pendingsubmissions", commands.PendingSubmissionsHandler(b)))

	// Review buttons
	h.Component("/submission/{action}/{id}", handlers.WrapComponentWithLogging("submission-review", components.SubmissionReviewHandler(b)))

	if err = b.SetupBot(h,
		bot.NewListenerFunc(b.OnReady),
		handlers.MessageHandler(b),
		handlers.MessageDeleteHandler(b),
		handlers.ReactionAddHandler(b),
		handlers.ReactionRemoveHandler(b),
		handlers.PinsHandler(b),
	); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	imageService := services.NewLeaderboardImageService()
	b.Leaderboard = services.NewLeaderboardService(b.Client, b.UserRepo, imageService, cfg.Challenge.LeaderboardChannelID)

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("error_details", fmt.Sprintf("%+v", err)),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"),
			)
		}
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = b.Client.OpenGateway(ctx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "gateway"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	jobs := scheduler.New()
	jobs.StartInterval("leaderboard-repost", config.LeaderboardInterval, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		return b.Leaderboard.Repost(ctx)
	})
	jobs.StartInterval("tier-sync", config.TierSyncInterval,
		scheduler.TierSyncJob(b.Client, b.UserRepo, cfg.Challenge.GuildID))
	jobs.StartDaily("activity-retention", config.RetentionHourUTC,
		scheduler.RetentionJob(b.ActivityRepo, b.UserRepo, b.SubmissionRepo, archiver))
	defer jobs.Shutdown(15 * time.Second)

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
