package runitup

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/mdevvx/official-runitup/runitup/config"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.Challenge.applyDefaults()
	return &cfg, nil
}

type Config struct {
	Log       LogConfig       `toml:"log"`
	Bot       BotConfig       `toml:"bot"`
	DB        DBConfig        `toml:"db"`
	Challenge ChallengeConfig `toml:"challenge"`
	Spaces    SpacesConfig    `toml:"spaces"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

// ChallengeConfig pins the challenge to a single guild and the channels
// the bot watches and posts to.
type ChallengeConfig struct {
	GuildID              snowflake.ID `toml:"guild_id"`
	AdminRoleID          snowflake.ID `toml:"admin_role_id"`
	ModRoleID            snowflake.ID `toml:"mod_role_id"`
	LeaderboardChannelID snowflake.ID `toml:"leaderboard_channel_id"`
	ValueDropsChannelID  snowflake.ID `toml:"value_drops_channel_id"`
	SubmissionsChannelID snowflake.ID `toml:"submissions_channel_id"`
	StartDate            time.Time    `toml:"start_date"`
	EndDate              time.Time    `toml:"end_date"`
	MaxReferrals         int          `toml:"max_referrals"`
	MaxValuePostsPerDay  int          `toml:"max_value_posts_per_day"`
	MaxPointsPerPost     int          `toml:"max_points_per_post"`
}

func (c *ChallengeConfig) applyDefaults() {
	if c.MaxReferrals <= 0 {
		c.MaxReferrals = config.DefaultMaxReferrals
	}
	if c.MaxValuePostsPerDay <= 0 {
		c.MaxValuePostsPerDay = config.DefaultMaxValuePostsPerDay
	}
	if c.MaxPointsPerPost <= 0 {
		c.MaxPointsPerPost = config.DefaultMaxPointsPerPost
	}
}

// Active reports whether the challenge window contains now. Zero bounds
// leave that side of the window open.
func (c *ChallengeConfig) Active(now time.Time) bool {
	if !c.StartDate.IsZero() && now.Before(c.StartDate) {
		return false
	}
	if !c.EndDate.IsZero() && now.After(c.EndDate) {
		return false
	}
	return true
}

type SpacesConfig struct {
	Key           string `toml:"key"`
	Secret        string `toml:"secret"`
	Region        string `toml:"region"`
	Bucket        string `toml:"bucket"`
	ArchivePrefix string `toml:"archive_prefix"`
}
