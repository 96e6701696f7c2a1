package config

import "time"

// Point values for every scoring event in the challenge.
const (
	PointsDailyActivity   = 1
	PointsFireEmoji       = 3
	PointsGemEmoji        = 3
	PointsHundredEmoji    = 5
	PointsPinned          = 15
	PointsFirstSale       = 3
	PointsWin100          = 5
	PointsWin500          = 15
	PointsWin1K           = 30
	PointsWin5K           = 75
	PointsCaseStudy       = 25
	PointsWhopReferral    = 10
	PointsDiscordReferral = 5
)

// Win amount brackets (revenue in dollars).
const (
	WinBracket100 = 100
	WinBracket500 = 500
	WinBracket1K  = 1000
	WinBracket5K  = 5000
)

// Default limits; overridable through the [challenge] config section.
const (
	DefaultMaxReferrals        = 10
	DefaultMaxValuePostsPerDay = 2
	DefaultMaxPointsPerPost    = 30
	DailyActivityThreshold     = 3
	ActivityRetentionDays      = 30
	LeaderboardSize            = 10
	MaxLeaderboardLimit        = 25
	ScalerRoleName             = "Scaler"
)

// Tracked reaction emojis on value drops.
const (
	EmojiFire    = "🔥"
	EmojiGem     = "💎"
	EmojiHundred = "💯"
)

// Embed colors
const (
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00
	GoldColor    = 0xFFD700

	EmbedDefaultColor = 0x2B2D31
)

// Timeouts and intervals
const (
	DefaultQueryTimeout     = 30 * time.Second
	CommandExecutionTimeout = 10 * time.Second
	NetworkDialTimeout      = 5 * time.Second

	LeaderboardInterval = 6 * time.Hour
	TierSyncInterval    = 1 * time.Hour
	RetentionHourUTC    = 3

	WarningDeleteDelay = 10 * time.Second

	// Reconciliation fans out member fetches; this caps concurrent REST calls.
	TierSyncConcurrency = 4

	ValuePostCacheSize = 1024
)
