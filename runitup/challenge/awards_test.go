package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mdevvx/official-runitup/runitup/config"
	"github.com/mdevvx/official-runitup/runitup/database/models"
)

func TestWinAward(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   int
	}{
		{"small first sale", 20, config.PointsFirstSale},
		{"just under first bracket", 99.99, config.PointsFirstSale},
		{"first bracket edge", 100, config.PointsWin100},
		{"mid bracket", 1200, config.PointsWin1K},
		{"second bracket edge", 500, config.PointsWin500},
		{"third bracket edge", 1000, config.PointsWin1K},
		{"top bracket edge", 5000, config.PointsWin5K},
		{"way past top bracket", 250000, config.PointsWin5K},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WinAward(tt.amount))
		})
	}
}

func TestReferralAward(t *testing.T) {
	assert.Equal(t, config.PointsWhopReferral, ReferralAward(models.ReferralTypeWhop))
	assert.Equal(t, config.PointsDiscordReferral, ReferralAward(models.ReferralTypeDiscord))
	assert.Equal(t, config.PointsWhopReferral, ReferralAward("something-else"))
}

func TestPostPoints(t *testing.T) {
	tests := []struct {
		name               string
		fire, gem, hundred int
		pinned             bool
		want               int
	}{
		{"no reactions", 0, 0, 0, false, 0},
		{"one of each", 1, 1, 1, false, 11},
		{"pinned adds bonus", 1, 0, 0, true, 18},
		{"clamped at cap", 10, 10, 10, false, config.DefaultMaxPointsPerPost},
		{"pin bonus rides above the cap", 5, 5, 5, true, config.DefaultMaxPointsPerPost + config.PointsPinned},
		{"pinned below cap", 1, 1, 1, true, 11 + config.PointsPinned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PostPoints(tt.fire, tt.gem, tt.hundred, tt.pinned, config.DefaultMaxPointsPerPost)
			assert.Equal(t, tt.want, got)
		})
	}
}
