package challenge

import (
	"github.com/mdevvx/official-runitup/runitup/config"
	"github.com/mdevvx/official-runitup/runitup/database/models"
)

// WinAward maps a submitted dollar amount onto the win point brackets.
func WinAward(amount float64) int {
	switch {
	case amount >= config.WinBracket5K:
		return config.PointsWin5K
	case amount >= config.WinBracket1K:
		return config.PointsWin1K
	case amount >= config.WinBracket500:
		return config.PointsWin500
	case amount >= config.WinBracket100:
		return config.PointsWin100
	default:
		return config.PointsFirstSale
	}
}

// ReferralAward returns the points for a referral submission by type.
func ReferralAward(referralType string) int {
	if referralType == models.ReferralTypeDiscord {
		return config.PointsDiscordReferral
	}
	return config.PointsWhopReferral
}

// PostPoints scores a value post from its reaction snapshot and pin
// state. The per-post cap clamps the weighted reaction sum only; the
// pin bonus rides on top of the capped value.
func PostPoints(fire, gem, hundred int, pinned bool, cap int) int {
	points := fire*config.PointsFireEmoji +
		gem*config.PointsGemEmoji +
		hundred*config.PointsHundredEmoji
	if points > cap {
		points = cap
	}
	if pinned {
		points += config.PointsPinned
	}
	return points
}
