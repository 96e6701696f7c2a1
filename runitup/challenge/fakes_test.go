package challenge

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mdevvx/official-runitup/runitup/database/models"
)

// In-memory repository stand-ins so the services can be exercised
// without a database.

type fakeUserRepo struct {
	users  map[string]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if _, exists := r.users[user.DiscordID]; exists {
		return fmt.Errorf("duplicate discord_id %s", user.DiscordID)
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.DiscordID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) GetByDiscordID(_ context.Context, discordID string) (*models.User, error) {
	user, ok := r.users[discordID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) GetOrCreate(ctx context.Context, discordID string, username string) (*models.User, error) {
	if user, ok := r.users[discordID]; ok {
		return user, nil
	}
	user := &models.User{DiscordID: discordID, Username: username, Tier: "OBSERVER"}
	if err := r.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.users[user.DiscordID] = user
	return nil
}

func (r *fakeUserRepo) SetScaler(_ context.Context, discordID string) error {
	user, ok := r.users[discordID]
	if !ok {
		return sql.ErrNoRows
	}
	user.IsScaler = true
	return nil
}

func (r *fakeUserRepo) IncrementReferralCount(_ context.Context, discordID string) error {
	user, ok := r.users[discordID]
	if !ok {
		return sql.ErrNoRows
	}
	user.ReferralCount++
	return nil
}

func (r *fakeUserRepo) GetTopUsers(_ context.Context, limit int) ([]*models.User, error) {
	users, _ := r.GetUsers(context.Background())
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *fakeUserRepo) GetUsers(_ context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

func (r *fakeUserRepo) Rank(_ context.Context, userID int64) (int, error) {
	target, err := r.GetByID(context.Background(), userID)
	if err != nil {
		return 0, err
	}
	rank := 1
	for _, user := range r.users {
		if user.TotalPoints > target.TotalPoints {
			rank++
		}
	}
	return rank, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int, error) {
	return len(r.users), nil
}

type fakeHistoryRepo struct {
	entries   []*models.PointsHistory
	createErr error
}

func (r *fakeHistoryRepo) Create(_ context.Context, entry *models.PointsHistory) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeHistoryRepo) GetRecent(_ context.Context, userID int64, limit int) ([]*models.PointsHistory, error) {
	var recent []*models.PointsHistory
	for i := len(r.entries) - 1; i >= 0 && len(recent) < limit; i-- {
		if r.entries[i].UserID == userID {
			recent = append(recent, r.entries[i])
		}
	}
	return recent, nil
}

type fakeSubmissionRepo struct {
	submissions map[int64]*models.Submission
	nextID      int64
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[int64]*models.Submission)}
}

func (r *fakeSubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	r.nextID++
	submission.ID = r.nextID
	submission.Status = models.SubmissionStatusPending
	submission.CreatedAt = time.Now()
	r.submissions[submission.ID] = submission
	return nil
}

func (r *fakeSubmissionRepo) GetByID(_ context.Context, id int64) (*models.Submission, error) {
	submission, ok := r.submissions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *submission
	return &copied, nil
}

func (r *fakeSubmissionRepo) GetPending(_ context.Context) ([]*models.Submission, error) {
	var pending []*models.Submission
	for _, submission := range r.submissions {
		if submission.Status == models.SubmissionStatusPending {
			pending = append(pending, submission)
		}
	}
	return pending, nil
}

func (r *fakeSubmissionRepo) GetByUserID(_ context.Context, userID int64) ([]*models.Submission, error) {
	var out []*models.Submission
	for _, submission := range r.submissions {
		if submission.UserID == userID {
			out = append(out, submission)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) Review(_ context.Context, id int64, status string, reviewedBy string, points int) (bool, error) {
	submission, ok := r.submissions[id]
	if !ok || submission.Status != models.SubmissionStatusPending {
		return false, nil
	}
	submission.Status = status
	submission.ReviewedBy = reviewedBy
	submission.ReviewedAt = time.Now()
	submission.PointsAwarded = points
	return true, nil
}

func (r *fakeSubmissionRepo) Count(_ context.Context) (int, error) {
	return len(r.submissions), nil
}

func (r *fakeSubmissionRepo) CountByStatus(_ context.Context, userID int64, status string) (int, error) {
	count := 0
	for _, submission := range r.submissions {
		if submission.UserID == userID && submission.Status == status {
			count++
		}
	}
	return count, nil
}

type fakeValuePostRepo struct {
	posts map[string]*models.ValuePost
}

func newFakeValuePostRepo() *fakeValuePostRepo {
	return &fakeValuePostRepo{posts: make(map[string]*models.ValuePost)}
}

func (r *fakeValuePostRepo) Create(_ context.Context, post *models.ValuePost) error {
	if _, exists := r.posts[post.MessageID]; exists {
		return fmt.Errorf("duplicate message_id %s", post.MessageID)
	}
	post.ID = int64(len(r.posts) + 1)
	r.posts[post.MessageID] = post
	return nil
}

func (r *fakeValuePostRepo) GetByMessageID(_ context.Context, messageID string) (*models.ValuePost, error) {
	post, ok := r.posts[messageID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *post
	return &copied, nil
}

func (r *fakeValuePostRepo) CountByUserOnDate(_ context.Context, userID int64, date time.Time) (int, error) {
	count := 0
	day := date.Format("2006-01-02")
	for _, post := range r.posts {
		if post.UserID == userID && post.PostDate.Format("2006-01-02") == day {
			count++
		}
	}
	return count, nil
}

func (r *fakeValuePostRepo) ListPinned(_ context.Context, channelID string) ([]*models.ValuePost, error) {
	var pinned []*models.ValuePost
	for _, post := range r.posts {
		if post.ChannelID == channelID && post.IsPinned {
			pinned = append(pinned, post)
		}
	}
	return pinned, nil
}

func (r *fakeValuePostRepo) UpdateScore(_ context.Context, post *models.ValuePost) error {
	stored, ok := r.posts[post.MessageID]
	if !ok {
		return sql.ErrNoRows
	}
	stored.FireCount = post.FireCount
	stored.GemCount = post.GemCount
	stored.HundredCount = post.HundredCount
	stored.TotalPoints = post.TotalPoints
	return nil
}

func (r *fakeValuePostRepo) SetPinned(_ context.Context, messageID string, pinned bool) (bool, error) {
	post, ok := r.posts[messageID]
	if !ok || post.IsPinned == pinned {
		return false, nil
	}
	post.IsPinned = pinned
	return true, nil
}

func (r *fakeValuePostRepo) DeleteByMessageID(_ context.Context, messageID string) error {
	delete(r.posts, messageID)
	return nil
}

type fakeActivityRepo struct {
	rows   map[string]*models.DailyActivity
	nextID int64
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{rows: make(map[string]*models.DailyActivity)}
}

func activityKey(userID int64, date time.Time) string {
	return fmt.Sprintf("%d:%s", userID, date.Format("2006-01-02"))
}

func (r *fakeActivityRepo) Track(_ context.Context, userID int64, date time.Time) (*models.DailyActivity, error) {
	key := activityKey(userID, date)
	row, ok := r.rows[key]
	if !ok {
		r.nextID++
		row = &models.DailyActivity{ID: r.nextID, UserID: userID, ActivityDate: date}
		r.rows[key] = row
	}
	row.MessageCount++
	copied := *row
	return &copied, nil
}

func (r *fakeActivityRepo) MarkAwarded(_ context.Context, id int64, points int) (bool, error) {
	for _, row := range r.rows {
		if row.ID == id {
			if row.PointsAwarded != 0 {
				return false, nil
			}
			row.PointsAwarded = points
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeActivityRepo) ListOlderThan(_ context.Context, cutoff time.Time) ([]*models.DailyActivity, error) {
	var old []*models.DailyActivity
	for _, row := range r.rows {
		if row.ActivityDate.Before(cutoff) {
			old = append(old, row)
		}
	}
	return old, nil
}

func (r *fakeActivityRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for key, row := range r.rows {
		if row.ActivityDate.Before(cutoff) {
			delete(r.rows, key)
			deleted++
		}
	}
	return deleted, nil
}
