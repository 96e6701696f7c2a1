package models

import (
	"time"

	"github.com/uptrace/bun"
)

type DailyActivity struct {
	bun.BaseModel `bun:"table:daily_activity,alias:da"`

	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        int64     `bun:"user_id,notnull"`
	ActivityDate  time.Time `bun:"activity_date,notnull,type:date"`
	MessageCount  int       `bun:"message_count,notnull,default:0"`
	PointsAwarded int       `bun:"points_awarded,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
