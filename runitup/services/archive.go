package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mdevvx/official-runitup/runitup/database/models"
)

// ActivityArchiver uploads purged activity rows to a Spaces bucket
// before the retention job deletes them.
type ActivityArchiver struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewActivityArchiver(spacesKey, spacesSecret, region, bucket, prefix string) *ActivityArchiver {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		panic(fmt.Sprintf("Unable to load Spaces config: %v", err))
	}

	return &ActivityArchiver{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

type archivedActivity struct {
	UserID        int64  `json:"user_id"`
	ActivityDate  string `json:"activity_date"`
	MessageCount  int    `json:"message_count"`
	PointsAwarded int    `json:"points_awarded"`
}

// Archive writes the rows as one JSON object per retention run, keyed by
// the run date.
func (a *ActivityArchiver) Archive(ctx context.Context, rows []*models.DailyActivity, runDate time.Time) error {
	if len(rows) == 0 {
		return nil
	}

	archived := make([]archivedActivity, 0, len(rows))
	for _, row := range rows {
		archived = append(archived, archivedActivity{
			UserID:        row.UserID,
			ActivityDate:  row.ActivityDate.Format("2006-01-02"),
			MessageCount:  row.MessageCount,
			PointsAwarded: row.PointsAwarded,
		})
	}

	payload, err := json.Marshal(map[string]interface{}{
		"archived_at": runDate.UTC().Format(time.RFC3339),
		"rows":        archived,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal activity archive: %w", err)
	}

	key := fmt.Sprintf("%s/daily-activity-%s.json", a.prefix, runDate.UTC().Format("2006-01-02"))
	if a.prefix == "" {
		key = strings.TrimPrefix(key, "/")
	}

	contentType := "application/json"
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &a.bucket,
		Key:         &key,
		Body:        bytes.NewReader(payload),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload activity archive: %w", err)
	}

	slog.Info("Activity archive uploaded",
		slog.String("type", "task"),
		slog.String("key", key),
		slog.Int("rows", len(rows)))
	return nil
}
