package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/mdevvx/official-runitup/runitup/database/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByDiscordID(ctx context.Context, discordID string) (*models.User, error)
	GetOrCreate(ctx context.Context, discordID string, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetScaler(ctx context.Context, discordID string) error
	IncrementReferralCount(ctx context.Context, discordID string) error
	GetTopUsers(ctx context.Context, limit int) ([]*models.User, error)
	GetUsers(ctx context.Context) ([]*models.User, error)
	// Rank returns the user's 1-based leaderboard position.
	Rank(ctx context.Context, userID int64) (int, error)
	Count(ctx context.Context) (int, error)
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(user).Exec(ctx)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("discord_id = ?", discordID).
		Scan(ctx)

	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("Database error when getting user",
				slog.String("type", "db"),
				slog.String("operation", "GetByDiscordID"),
				slog.String("discord_id", discordID),
				slog.String("error", err.Error()))
		}
		return nil, err
	}

	return user, nil
}

// GetOrCreate returns the existing row for discordID or inserts a fresh
// one. Concurrent callers can race on the insert; the unique index on
// discord_id makes the loser fail, so we re-read once on conflict.
func (r *userRepository) GetOrCreate(ctx context.Context, discordID string, username string) (*models.User, error) {
	user, err := r.GetByDiscordID(ctx, discordID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	user = &models.User{
		DiscordID: discordID,
		Username:  username,
		Tier:      "OBSERVER",
	}
	if err := r.Create(ctx, user); err != nil {
		if existing, getErr := r.GetByDiscordID(ctx, discordID); getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(user).
		WherePK().
		Exec(ctx)
	return err
}

func (r *userRepository) SetScaler(ctx context.Context, discordID string) error {
	_, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("is_scaler = true").
		Set("updated_at = ?", time.Now()).
		Where("discord_id = ?", discordID).
		Exec(ctx)
	return err
}

func (r *userRepository) IncrementReferralCount(ctx context.Context, discordID string) error {
	_, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("referral_count = referral_count + 1").
		Set("updated_at = ?", time.Now()).
		Where("discord_id = ?", discordID).
		Exec(ctx)
	return err
}

func (r *userRepository) GetTopUsers(ctx context.Context, limit int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.NewSelect().
		Model(&users).
		Order("total_points DESC").
		Order("updated_at ASC").
		Limit(limit).
		Scan(ctx)
	return users, err
}

func (r *userRepository) GetUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.NewSelect().
		Model(&users).
		Scan(ctx)
	return users, err
}

func (r *userRepository) Rank(ctx context.Context, userID int64) (int, error) {
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	ahead, err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Where("total_points > ?", user.TotalPoints).
		Count(ctx)
	if err != nil {
		return 0, err
	}
	return ahead + 1, nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().
		Model((*models.User)(nil)).
		Count(ctx)
}
