package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifier/internal/modules/tips"
	"notifier/internal/testutil"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestTipsArchive_ArchiveTips(t *testing.T) {
	putter := &fakePutter{}
	archive := NewTipsArchive(putter, "tips-bucket", testutil.DiscardLogger())
	record := &tips.DailyTips{DateKey: "2026-03-10", TipOne: "a", TipTwo: "b", TipThree: "c", GeneratedAt: time.Now().UTC()}

	require.NoError(t, archive.ArchiveTips(context.Background(), record))

	assert.Equal(t, "tips-bucket", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "tips/2026-03-10.json", aws.ToString(putter.input.Key))
	assert.Equal(t, "application/json", aws.ToString(putter.input.ContentType))
	assert.NotEmpty(t, putter.input.Metadata["run-id"])

	var decoded tips.DailyTips
	require.NoError(t, json.Unmarshal(putter.body, &decoded))
	assert.Equal(t, "b", decoded.TipTwo)
}

func TestTipsArchive_UploadError(t *testing.T) {
	archive := NewTipsArchive(&fakePutter{err: errors.New("access denied")}, "b", testutil.DiscardLogger())
	err := archive.ArchiveTips(context.Background(), &tips.DailyTips{DateKey: "2026-03-10"})
	assert.ErrorIs(t, err, tips.ErrArchiveFailed)
}
