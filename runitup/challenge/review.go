package challenge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mdevvx/official-runitup/runitup/config"
	"github.com/mdevvx/official-runitup/runitup/database/models"
	"github.com/mdevvx/official-runitup/runitup/database/repositories"
)

// ErrAlreadyReviewed means another reviewer decided the submission first.
var ErrAlreadyReviewed = errors.New("submission already reviewed")

// ReviewService resolves pending submissions. The status transition is a
// conditional update keyed on the pending status, so two reviewers
// clicking at once cannot both award points.
type ReviewService struct {
	submissions repositories.SubmissionRepository
	users       repositories.UserRepository
	engine      *Engine
}

func NewReviewService(submissions repositories.SubmissionRepository, users repositories.UserRepository, engine *Engine) *ReviewService {
	return &ReviewService{submissions: submissions, users: users, engine: engine}
}

// Approve awards the submission's points and applies type-specific side
// effects. Returns the updated user so callers can show the new total.
func (s *ReviewService) Approve(ctx context.Context, submissionID int64, reviewerID string) (*models.Submission, *models.User, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load submission %d: %w", submissionID, err)
	}

	user, err := s.users.GetByID(ctx, submission.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load submitter for submission %d: %w", submissionID, err)
	}

	points := s.pointsFor(submission)

	ok, err := s.submissions.Review(ctx, submissionID, models.SubmissionStatusApproved, reviewerID, points)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to approve submission %d: %w", submissionID, err)
	}
	if !ok {
		return nil, nil, ErrAlreadyReviewed
	}

	switch submission.Type {
	case models.SubmissionTypeScalerApplication:
		if err := s.users.SetScaler(ctx, user.DiscordID); err != nil {
			return nil, nil, fmt.Errorf("failed to mark user %s as scaler: %w", user.DiscordID, err)
		}
	case models.SubmissionTypeReferral:
		if err := s.users.IncrementReferralCount(ctx, user.DiscordID); err != nil {
			slog.Error("Failed to bump referral count",
				slog.String("type", "db"),
				slog.String("discord_id", user.DiscordID),
				slog.Any("error", err))
		}
	}

	if points > 0 {
		user, err = s.engine.UpdatePoints(ctx, user.DiscordID, user.Username, points, reviewReason(submission))
		if err != nil {
			return nil, nil, err
		}
	}

	submission.Status = models.SubmissionStatusApproved
	submission.ReviewedBy = reviewerID
	submission.PointsAwarded = points
	return submission, user, nil
}

// Reject closes the submission without awarding anything.
func (s *ReviewService) Reject(ctx context.Context, submissionID int64, reviewerID string) (*models.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submission %d: %w", submissionID, err)
	}

	ok, err := s.submissions.Review(ctx, submissionID, models.SubmissionStatusRejected, reviewerID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to reject submission %d: %w", submissionID, err)
	}
	if !ok {
		return nil, ErrAlreadyReviewed
	}

	submission.Status = models.SubmissionStatusRejected
	submission.ReviewedBy = reviewerID
	return submission, nil
}

func (s *ReviewService) pointsFor(submission *models.Submission) int {
	switch submission.Type {
	case models.SubmissionTypeWin:
		return WinAward(submission.Amount)
	case models.SubmissionTypeReferral:
		return ReferralAward(submission.ReferralType)
	case models.SubmissionTypeScalerApplication:
		return 0
	default:
		return 0
	}
}

func reviewReason(submission *models.Submission) string {
	switch submission.Type {
	case models.SubmissionTypeWin:
		return fmt.Sprintf("Win approved ($%.2f)", submission.Amount)
	case models.SubmissionTypeReferral:
		return fmt.Sprintf("%s referral approved", submission.ReferralType)
	default:
		return "Submission approved"
	}
}

// ReferralLimitReached reports whether the user is at the referral cap.
func ReferralLimitReached(user *models.User, maxReferrals int) bool {
	if maxReferrals <= 0 {
		maxReferrals = config.DefaultMaxReferrals
	}
	return user.ReferralCount >= maxReferrals
}
