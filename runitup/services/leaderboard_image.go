package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/mdevvx/official-runitup/runitup/challenge"
	"github.com/mdevvx/official-runitup/runitup/database/models"
)

// LeaderboardImageService renders the leaderboard as a PNG by templating
// HTML and screenshotting it in headless Chrome.
type LeaderboardImageService struct {
	logger *slog.Logger
}

type leaderboardRow struct {
	Rank      int
	Username  string
	Points    int
	TierEmoji string
	TierName  string
}

type leaderboardTemplateData struct {
	Timestamp string
	Rows      []leaderboardRow
}

func NewLeaderboardImageService() *LeaderboardImageService {
	service := &LeaderboardImageService{
		logger: slog.With(slog.String("service", "leaderboard_image")),
	}

	service.testChromedpAvailability()

	return service
}

func (s *LeaderboardImageService) testChromedpAvailability() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	chromedpCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	err := chromedp.Run(chromedpCtx, chromedp.Navigate("data:text/html,<html><body>test</body></html>"))
	if err != nil {
		s.logger.Error("chromedp not available - falling back to embed leaderboards",
			slog.String("error", err.Error()))
	} else {
		s.logger.Info("chromedp is available and working")
	}
}

// Generate renders the top users into a screenshot. Callers fall back to
// a plain embed when this fails.
func (s *LeaderboardImageService) Generate(ctx context.Context, users []*models.User) ([]byte, error) {
	start := time.Now()

	if len(users) == 0 {
		return nil, fmt.Errorf("no leaderboard entries provided")
	}
	if len(users) > 10 {
		users = users[:10]
	}

	rows := make([]leaderboardRow, 0, len(users))
	for i, user := range users {
		tier := challenge.TierFor(user.TotalPoints)
		rows = append(rows, leaderboardRow{
			Rank:      i + 1,
			Username:  user.Username,
			Points:    user.TotalPoints,
			TierEmoji: tier.Emoji,
			TierName:  tier.Name,
		})
	}

	htmlContent, err := s.generateHTML(leaderboardTemplateData{
		Timestamp: time.Now().UTC().Format("Jan 2 15:04 UTC"),
		Rows:      rows,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	chromedpCtx, cancel := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	chromedpCtx, cancel = context.WithTimeout(chromedpCtx, 15*time.Second)
	defer cancel()

	var imageBytes []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("data:text/html,"+htmlContent),
		chromedp.WaitVisible("#leaderboard-container", chromedp.ByID),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.Screenshot("#leaderboard-container", &imageBytes, chromedp.ByID),
	)
	if err != nil {
		s.logger.Error("Failed to generate image with chromedp",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	s.logger.Info("Leaderboard image generated",
		slog.Int("image_size", len(imageBytes)),
		slog.Duration("elapsed", time.Since(start)))

	return imageBytes, nil
}

func (s *LeaderboardImageService) generateHTML(data leaderboardTemplateData) (string, error) {
	tmpl, err := template.New("leaderboard").Parse(leaderboardHTML)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	// data: URLs treat # as a fragment delimiter
	htmlContent := strings.ReplaceAll(buf.String(), "#", "%23")
	htmlContent = strings.ReplaceAll(htmlContent, "\n", "")

	return htmlContent, nil
}

const leaderboardHTML = `<!DOCTYPE html>
<html>
<head>
<style>
  body { margin: 0; background: transparent; font-family: 'Segoe UI', sans-serif; }
  #leaderboard-container {
    width: 520px;
    background: linear-gradient(160deg, #1e2124, #2b2d31);
    border-radius: 16px;
    padding: 24px;
    color: #fff;
  }
  h1 { font-size: 22px; margin: 0 0 4px 0; }
  .subtitle { color: #9ba0a6; font-size: 12px; margin-bottom: 16px; }
  .row {
    display: flex;
    align-items: center;
    padding: 10px 12px;
    margin-bottom: 6px;
    background: rgba(255, 255, 255, 0.04);
    border-radius: 10px;
  }
  .row.top { background: rgba(255, 215, 0, 0.12); }
  .rank { width: 36px; font-size: 16px; font-weight: 700; color: #ffd700; }
  .tier { width: 28px; font-size: 16px; }
  .name { flex: 1; font-size: 15px; overflow: hidden; text-overflow: ellipsis; white-space: nowrap; }
  .points { font-size: 15px; font-weight: 600; color: #57f287; }
</style>
</head>
<body>
<div id="leaderboard-container">
  <h1>🏆 Challenge Leaderboard</h1>
  <div class="subtitle">Updated {{.Timestamp}}</div>
  {{range .Rows}}
  <div class="row{{if le .Rank 3}} top{{end}}">
    <span class="rank">#{{.Rank}}</span>
    <span class="tier">{{.TierEmoji}}</span>
    <span class="name">{{.Username}}</span>
    <span class="points">{{.Points}} pts</span>
  </div>
  {{end}}
</div>
</body>
</html>`
