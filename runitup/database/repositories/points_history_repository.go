package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/mdevvx/official-runitup/runitup/database/models"
)

type PointsHistoryRepository interface {
	Create(ctx context.Context, entry *models.PointsHistory) error
	GetRecent(ctx context.Context, userID int64, limit int) ([]*models.PointsHistory, error)
}

type pointsHistoryRepository struct {
	db *bun.DB
}

func NewPointsHistoryRepository(db *bun.DB) PointsHistoryRepository {
	return &pointsHistoryRepository{db: db}
}

func (r *pointsHistoryRepository) Create(ctx context.Context, entry *models.PointsHistory) error {
	entry.CreatedAt = time.Now()
	_, err := r.db.NewInsert().Model(entry).Exec(ctx)
	return err
}

func (r *pointsHistoryRepository) GetRecent(ctx context.Context, userID int64, limit int) ([]*models.PointsHistory, error) {
	var entries []*models.PointsHistory
	err := r.db.NewSelect().
		Model(&entries).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	return entries, err
}
