package challenge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/mdevvx/official-runitup/runitup/config"
	"github.com/mdevvx/official-runitup/runitup/database/models"
	"github.com/mdevvx/official-runitup/runitup/database/repositories"
)

// ErrDailyPostLimit means the author already posted their allowance for
// the day.
var ErrDailyPostLimit = errors.New("daily value post limit reached")

// PostScorer tracks value-drop posts and keeps their scores in sync with
// the reaction snapshot on the live message. Scores are recomputed from
// absolute counts rather than incremented, so replayed or out-of-order
// reaction events converge on the same total.
type PostScorer struct {
	posts  repositories.ValuePostRepository
	users  repositories.UserRepository
	engine *Engine

	maxPerDay  int
	maxPerPost int
	ownerCache *lru.Cache
}

type postOwner struct {
	discordID string
	username  string
}

func NewPostScorer(posts repositories.ValuePostRepository, users repositories.UserRepository, engine *Engine, maxPerDay, maxPerPost int) *PostScorer {
	cache, _ := lru.New(config.ValuePostCacheSize)
	if maxPerDay <= 0 {
		maxPerDay = config.DefaultMaxValuePostsPerDay
	}
	if maxPerPost <= 0 {
		maxPerPost = config.DefaultMaxPointsPerPost
	}
	return &PostScorer{
		posts:      posts,
		users:      users,
		engine:     engine,
		maxPerDay:  maxPerDay,
		maxPerPost: maxPerPost,
		ownerCache: cache,
	}
}

// TrackPost registers a new message in the value-drops channel. Returns
// ErrDailyPostLimit when the author is over their daily allowance.
func (s *PostScorer) TrackPost(ctx context.Context, discordID, username, messageID, channelID string, now time.Time) error {
	user, err := s.users.GetOrCreate(ctx, discordID, username)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", discordID, err)
	}

	day := now.UTC().Truncate(24 * time.Hour)
	count, err := s.posts.CountByUserOnDate(ctx, user.ID, day)
	if err != nil {
		return fmt.Errorf("failed to count posts for %s: %w", discordID, err)
	}
	if count >= s.maxPerDay {
		return ErrDailyPostLimit
	}

	post := &models.ValuePost{
		MessageID: messageID,
		UserID:    user.ID,
		ChannelID: channelID,
		PostDate:  day,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return fmt.Errorf("failed to create value post %s: %w", messageID, err)
	}

	s.ownerCache.Add(messageID, postOwner{discordID: discordID, username: username})
	return nil
}

// ApplySnapshot rescores a post from the absolute reaction counts on the
// live message and settles the difference against the author's total.
func (s *PostScorer) ApplySnapshot(ctx context.Context, messageID string, fire, gem, hundred int) error {
	post, err := s.posts.GetByMessageID(ctx, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to load value post %s: %w", messageID, err)
	}

	newPoints := PostPoints(fire, gem, hundred, post.IsPinned, s.maxPerPost)
	delta := newPoints - post.TotalPoints

	post.FireCount = fire
	post.GemCount = gem
	post.HundredCount = hundred
	post.TotalPoints = newPoints
	if err := s.posts.UpdateScore(ctx, post); err != nil {
		return fmt.Errorf("failed to update score for %s: %w", messageID, err)
	}

	if delta == 0 {
		return nil
	}

	owner, err := s.owner(ctx, post)
	if err != nil {
		return err
	}
	_, err = s.engine.UpdatePoints(ctx, owner.discordID, owner.username, delta, "Value post reactions")
	return err
}

// SetPinned applies the pin bonus exactly once per pin state change.
func (s *PostScorer) SetPinned(ctx context.Context, messageID string, pinned bool) error {
	changed, err := s.posts.SetPinned(ctx, messageID, pinned)
	if err != nil {
		return fmt.Errorf("failed to update pin state for %s: %w", messageID, err)
	}
	if !changed {
		return nil
	}

	post, err := s.posts.GetByMessageID(ctx, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to load value post %s: %w", messageID, err)
	}

	newPoints := PostPoints(post.FireCount, post.GemCount, post.HundredCount, pinned, s.maxPerPost)
	delta := newPoints - post.TotalPoints

	post.TotalPoints = newPoints
	if err := s.posts.UpdateScore(ctx, post); err != nil {
		return fmt.Errorf("failed to update score for %s: %w", messageID, err)
	}

	if delta == 0 {
		return nil
	}

	owner, err := s.owner(ctx, post)
	if err != nil {
		return err
	}
	reason := "Post pinned"
	if !pinned {
		reason = "Post unpinned"
	}
	_, err = s.engine.UpdatePoints(ctx, owner.discordID, owner.username, delta, reason)
	return err
}

// RemovePost reverses everything a deleted message earned and drops its
// row.
func (s *PostScorer) RemovePost(ctx context.Context, messageID string) error {
	post, err := s.posts.GetByMessageID(ctx, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to load value post %s: %w", messageID, err)
	}

	if err := s.posts.DeleteByMessageID(ctx, messageID); err != nil {
		return fmt.Errorf("failed to delete value post %s: %w", messageID, err)
	}
	s.ownerCache.Remove(messageID)

	if post.TotalPoints == 0 {
		return nil
	}

	owner, err := s.owner(ctx, post)
	if err != nil {
		return err
	}
	_, err = s.engine.UpdatePoints(ctx, owner.discordID, owner.username, -post.TotalPoints, "Post deleted")
	return err
}

// Tracked reports whether a message is a known value post.
func (s *PostScorer) Tracked(ctx context.Context, messageID string) bool {
	if s.ownerCache.Contains(messageID) {
		return true
	}
	_, err := s.posts.GetByMessageID(ctx, messageID)
	return err == nil
}

func (s *PostScorer) owner(ctx context.Context, post *models.ValuePost) (postOwner, error) {
	if cached, ok := s.ownerCache.Get(post.MessageID); ok {
		if owner, ok := cached.(postOwner); ok {
			return owner, nil
		}
	}

	user, err := s.users.GetByID(ctx, post.UserID)
	if err != nil {
		return postOwner{}, fmt.Errorf("failed to load post owner: %w", err)
	}

	owner := postOwner{discordID: user.DiscordID, username: user.Username}
	s.ownerCache.Add(post.MessageID, owner)
	return owner, nil
}
