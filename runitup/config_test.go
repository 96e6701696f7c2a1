package runitup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdevvx/official-runitup/runitup/config"
)

func TestLoadConfig(t *testing.T) {
	raw := `
[log]
level = "info"
format = "text"

[bot]
token = "test-token"
dev_guilds = [123456789012345678]

[db]
host = "localhost"
port = 5432
user = "bot"
password = "secret"
database = "runitup"
pool_size = 10

[challenge]
guild_id = 123456789012345678
admin_role_id = 223456789012345678
leaderboard_channel_id = 323456789012345678
value_drops_channel_id = 423456789012345678
submissions_channel_id = 523456789012345678
start_date = 2026-01-01T00:00:00Z
end_date = 2026-03-31T23:59:59Z
max_referrals = 10
`
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.Bot.Token)
	assert.Equal(t, "runitup", cfg.DB.Database)
	assert.Equal(t, 10, cfg.Challenge.MaxReferrals)

	// Unset limits fall back to defaults.
	assert.Equal(t, config.DefaultMaxValuePostsPerDay, cfg.Challenge.MaxValuePostsPerDay)
	assert.Equal(t, config.DefaultMaxPointsPerPost, cfg.Challenge.MaxPointsPerPost)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestChallengeActive(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name string
		cfg  ChallengeConfig
		now  time.Time
		want bool
	}{
		{"inside window", ChallengeConfig{StartDate: start, EndDate: end}, start.AddDate(0, 1, 0), true},
		{"before start", ChallengeConfig{StartDate: start, EndDate: end}, start.Add(-time.Hour), false},
		{"after end", ChallengeConfig{StartDate: start, EndDate: end}, end.Add(time.Hour), false},
		{"at start", ChallengeConfig{StartDate: start, EndDate: end}, start, true},
		{"open window", ChallengeConfig{}, time.Now(), true},
		{"open end", ChallengeConfig{StartDate: start}, end.AddDate(1, 0, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Active(tt.now))
		})
	}
}
