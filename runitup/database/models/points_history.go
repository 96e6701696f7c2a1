package models

import (
	"time"

	"github.com/uptrace/bun"
)

// PointsHistory is an append-only ledger of every point change. Rows are
// never updated after insert.
type PointsHistory struct {
	bun.BaseModel `bun:"table:points_history,alias:ph"`

	ID           int64  `bun:"id,pk,autoincrement"`
	UserID       int64  `bun:"user_id,notnull"`
	PointsChange int    `bun:"points_change,notnull"`
	Reason       string `bun:"reason,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
