package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/mdevvx/official-runitup/runitup/database/models"
)

type ValuePostRepository interface {
	Create(ctx context.Context, post *models.ValuePost) error
	GetByMessageID(ctx context.Context, messageID string) (*models.ValuePost, error)
	CountByUserOnDate(ctx context.Context, userID int64, date time.Time) (int, error)
	ListPinned(ctx context.Context, channelID string) ([]*models.ValuePost, error)
	UpdateScore(ctx context.Context, post *models.ValuePost) error
	SetPinned(ctx context.Context, messageID string, pinned bool) (bool, error)
	DeleteByMessageID(ctx context.Context, messageID string) error
}

type valuePostRepository struct {
	db *bun.DB
}

func NewValuePostRepository(db *bun.DB) ValuePostRepository {
	return &valuePostRepository{db: db}
}

func (r *valuePostRepository) Create(ctx context.Context, post *models.ValuePost) error {
	post.CreatedAt = time.Now()
	_, err := r.db.NewInsert().Model(post).Exec(ctx)
	return err
}

func (r *valuePostRepository) GetByMessageID(ctx context.Context, messageID string) (*models.ValuePost, error) {
	post := new(models.ValuePost)
	err := r.db.NewSelect().
		Model(post).
		Where("message_id = ?", messageID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *valuePostRepository) CountByUserOnDate(ctx context.Context, userID int64, date time.Time) (int, error) {
	return r.db.NewSelect().
		Model((*models.ValuePost)(nil)).
		Where("user_id = ?", userID).
		Where("post_date = ?", date.Format("2006-01-02")).
		Count(ctx)
}

func (r *valuePostRepository) ListPinned(ctx context.Context, channelID string) ([]*models.ValuePost, error) {
	var posts []*models.ValuePost
	err := r.db.NewSelect().
		Model(&posts).
		Where("channel_id = ?", channelID).
		Where("is_pinned = true").
		Scan(ctx)
	return posts, err
}

func (r *valuePostRepository) UpdateScore(ctx context.Context, post *models.ValuePost) error {
	_, err := r.db.NewUpdate().
		Model(post).
		Column("fire_count", "gem_count", "hundred_count", "total_points").
		WherePK().
		Exec(ctx)
	return err
}

// SetPinned flips the pinned flag and reports whether the row actually
// changed, so repeated pin events award points only once.
func (r *valuePostRepository) SetPinned(ctx context.Context, messageID string, pinned bool) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*models.ValuePost)(nil)).
		Set("is_pinned = ?", pinned).
		Where("message_id = ?", messageID).
		Where("is_pinned = ?", !pinned).
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

func (r *valuePostRepository) DeleteByMessageID(ctx context.Context, messageID string) error {
	_, err := r.db.NewDelete().
		Model((*models.ValuePost)(nil)).
		Where("message_id = ?", messageID).
		Exec(ctx)
	return err
}
