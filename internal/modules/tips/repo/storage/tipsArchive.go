package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"notifier/internal/modules/tips"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// TipsArchive keeps one JSON object per day under tips/<date>.json.
type TipsArchive struct {
	client objectPutter
	bucket string
	log    *slog.Logger
}

func NewTipsArchive(client objectPutter, bucket string, log *slog.Logger) *TipsArchive {
	return &TipsArchive{
		client: client,
		bucket: bucket,
		log:    log,
	}
}

func ObjectKey(dateKey string) string {
	return fmt.Sprintf("tips/%s.json", dateKey)
}

func (a *TipsArchive) ArchiveTips(ctx context.Context, t *tips.DailyTips) error {
	op := "TipsArchive.ArchiveTips"
	key := ObjectKey(t.DateKey)
	log := a.log.With(slog.String("op", op), slog.String("bucket", a.bucket), slog.String("key", key))

	body, err := json.Marshal(t)
	if err != nil {
		log.Error("failed to marshal tips", "error", err)
		return tips.ErrArchiveFailed
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata:    map[string]string{"run-id": uuid.NewString()},
	})
	if err != nil {
		log.Error("failed to upload tips", "error", err)
		return fmt.Errorf("%w: %v", tips.ErrArchiveFailed, err)
	}

	log.Info("daily tips archived")
	return nil
}
