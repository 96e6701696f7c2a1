package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/mdevvx/official-runitup/runitup/database/models"
)

type DailyActivityRepository interface {
	// Track upserts the row for (userID, date) and increments its message
	// count, returning the updated row.
	Track(ctx context.Context, userID int64, date time.Time) (*models.DailyActivity, error)
	// MarkAwarded records the daily point on a row that has not awarded one
	// yet and reports whether this call won the award.
	MarkAwarded(ctx context.Context, id int64, points int) (bool, error)
	ListOlderThan(ctx context.Context, cutoff time.Time) ([]*models.DailyActivity, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type dailyActivityRepository struct {
	db *bun.DB
}

func NewDailyActivityRepository(db *bun.DB) DailyActivityRepository {
	return &dailyActivityRepository{db: db}
}

func (r *dailyActivityRepository) Track(ctx context.Context, userID int64, date time.Time) (*models.DailyActivity, error) {
	activity := &models.DailyActivity{
		UserID:       userID,
		ActivityDate: date,
		MessageCount: 1,
		CreatedAt:    time.Now(),
	}

	err := r.db.NewInsert().
		Model(activity).
		On("CONFLICT (user_id, activity_date) DO UPDATE").
		Set("message_count = daily_activity.message_count + 1").
		Returning("*").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return activity, nil
}

func (r *dailyActivityRepository) MarkAwarded(ctx context.Context, id int64, points int) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*models.DailyActivity)(nil)).
		Set("points_awarded = ?", points).
		Where("id = ?", id).
		Where("points_awarded = 0").
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

func (r *dailyActivityRepository) ListOlderThan(ctx context.Context, cutoff time.Time) ([]*models.DailyActivity, error) {
	var rows []*models.DailyActivity
	err := r.db.NewSelect().
		Model(&rows).
		Where("activity_date < ?", cutoff.Format("2006-01-02")).
		Order("activity_date ASC").
		Scan(ctx)
	return rows, err
}

func (r *dailyActivityRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*models.DailyActivity)(nil)).
		Where("activity_date < ?", cutoff.Format("2006-01-02")).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
