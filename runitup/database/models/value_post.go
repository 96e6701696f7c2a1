package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ValuePost tracks one message in the value-drops channel. Reaction counts
// are snapshots of the live message, not running deltas.
type ValuePost struct {
	bun.BaseModel `bun:"table:value_posts,alias:vp"`

	ID        int64  `bun:"id,pk,autoincrement"`
	MessageID string `bun:"message_id,notnull,unique"`
	UserID    int64  `bun:"user_id,notnull"`
	ChannelID string `bun:"channel_id,notnull"`

	PostDate     time.Time `bun:"post_date,notnull,type:date"`
	FireCount    int       `bun:"fire_count,notnull,default:0"`
	GemCount     int       `bun:"gem_count,notnull,default:0"`
	HundredCount int       `bun:"hundred_count,notnull,default:0"`
	IsPinned     bool      `bun:"is_pinned,notnull,default:false"`
	TotalPoints  int       `bun:"total_points,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
