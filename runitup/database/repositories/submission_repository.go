package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/mdevvx/official-runitup/runitup/database/models"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id int64) (*models.Submission, error)
	GetPending(ctx context.Context) ([]*models.Submission, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.Submission, error)
	// Review transitions a pending submission to status and reports whether
	// the transition happened. A false result with nil error means another
	// reviewer got there first.
	Review(ctx context.Context, id int64, status string, reviewedBy string, points int) (bool, error)
	CountByStatus(ctx context.Context, userID int64, status string) (int, error)
	Count(ctx context.Context) (int, error)
}

type submissionRepository struct {
	db *bun.DB
}

func NewSubmissionRepository(db *bun.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	submission.Status = models.SubmissionStatusPending
	submission.CreatedAt = time.Now()
	_, err := r.db.NewInsert().Model(submission).Exec(ctx)
	return err
}

func (r *submissionRepository) GetByID(ctx context.Context, id int64) (*models.Submission, error) {
	submission := new(models.Submission)
	err := r.db.NewSelect().
		Model(submission).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return submission, nil
}

func (r *submissionRepository) GetPending(ctx context.Context) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := r.db.NewSelect().
		Model(&submissions).
		Where("status = ?", models.SubmissionStatusPending).
		Order("created_at ASC").
		Scan(ctx)
	return submissions, err
}

func (r *submissionRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := r.db.NewSelect().
		Model(&submissions).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	return submissions, err
}

func (r *submissionRepository) Review(ctx context.Context, id int64, status string, reviewedBy string, points int) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*models.Submission)(nil)).
		Set("status = ?", status).
		Set("reviewed_by = ?", reviewedBy).
		Set("reviewed_at = ?", time.Now()).
		Set("points_awarded = ?", points).
		Where("id = ?", id).
		Where("status = ?", models.SubmissionStatusPending).
		Exec(ctx)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *submissionRepository) CountByStatus(ctx context.Context, userID int64, status string) (int, error) {
	return r.db.NewSelect().
		Model((*models.Submission)(nil)).
		Where("user_id = ?", userID).
		Where("status = ?", status).
		Count(ctx)
}

func (r *submissionRepository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().
		Model((*models.Submission)(nil)).
		Count(ctx)
}
