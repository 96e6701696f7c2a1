package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	SubmissionTypeWin               = "win"
	SubmissionTypeReferral          = "referral"
	SubmissionTypeScalerApplication = "scaler_application"

	SubmissionStatusPending  = "pending"
	SubmissionStatusApproved = "approved"
	SubmissionStatusRejected = "rejected"

	ReferralTypeWhop    = "whop"
	ReferralTypeDiscord = "discord"
)

type Submission struct {
	bun.BaseModel `bun:"table:submissions,alias:s"`

	ID            int64   `bun:"id,pk,autoincrement"`
	UserID        int64   `bun:"user_id,notnull"`
	Type          string  `bun:"submission_type,notnull"`
	Status        string  `bun:"status,notnull,default:'pending'"`
	Description   string  `bun:"description"`
	ProofURL      string  `bun:"proof_url"`
	Amount        float64 `bun:"amount,notnull,default:0"`
	ReferralType  string  `bun:"referral_type"`
	PointsAwarded int     `bun:"points_awarded,notnull,default:0"`
	ReviewedBy    string  `bun:"reviewed_by"`

	ReviewedAt time.Time `bun:"reviewed_at,nullzero"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
