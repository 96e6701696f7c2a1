package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID            int64  `bun:"id,pk,autoincrement"`
	DiscordID     string `bun:"discord_id,notnull,unique"`
	Username      string `bun:"username,notnull"`
	TotalPoints   int    `bun:"total_points,notnull,default:0"`
	Tier          string `bun:"tier,notnull,default:'OBSERVER'"`
	IsScaler      bool   `bun:"is_scaler,notnull,default:false"`
	ReferralCount int    `bun:"referral_count,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
