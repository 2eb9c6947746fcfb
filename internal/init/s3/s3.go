package s3

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"notifier/config"
)

// S3Storage holds the client and its bucket config.
type S3Storage struct {
	Client *s3.Client
	Cfg    config.S3Config
}

// NewS3Storage initializes the client and makes sure the tips bucket exists.
func NewS3Storage(ctx context.Context, appS3Cfg config.S3Config, log *slog.Logger) (*S3Storage, error) {
	log = log.With(slog.String("component", "S3Storage"))

	accessKey := os.Getenv("S3_ACCESS_KEY")
	secretKey := os.Getenv("S3_SECRET_KEY")
	if accessKey == "" || secretKey == "" {
		return nil, errors.New("S3_ACCESS_KEY or S3_SECRET_KEY environment variables are not set")
	}

	customResolver := aws.EndpointResolverFunc(func(service, region string) (aws.Endpoint, error) {
		if service == s3.ServiceID && appS3Cfg.Endpoint != "" {
			endpointURL := appS3Cfg.Endpoint
			if !strings.HasPrefix(endpointURL, "http") {
				endpointURL = "https://" + endpointURL
			}
			return aws.Endpoint{
				URL:               endpointURL,
				HostnameImmutable: true,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	sdkCfg, err := awsConfig.LoadDefaultConfig(ctx,
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		awsConfig.WithRegion(appS3Cfg.Region),
		awsConfig.WithEndpointResolver(customResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("S3 Init: failed to load AWS SDK config: %w", err)
	}

	storage := &S3Storage{
		Client: s3.NewFromConfig(sdkCfg),
		Cfg:    appS3Cfg,
	}

	if err := storage.ensureBucketExists(ctx, appS3Cfg.BucketTips, log); err != nil {
		log.Warn("tips bucket is not ready, archive writes may fail", "bucket", appS3Cfg.BucketTips, "error", err)
	}
	return storage, nil
}

func (s *S3Storage) ensureBucketExists(ctx context.Context, bucketName string, log *slog.Logger) error {
	_, err := s.Client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucketName)})
	if err == nil {
		log.Info("bucket already exists", "bucket", bucketName)
		return nil
	}

	var apiError interface{ ErrorCode() string }
	if !errors.As(err, &apiError) || (apiError.ErrorCode() != "NotFound" && apiError.ErrorCode() != "NoSuchBucket") {
		return fmt.Errorf("error during HeadBucket for '%s': %w", bucketName, err)
	}

	var createBucketCfg *types.CreateBucketConfiguration
	if s.Cfg.Region != "" && s.Cfg.Region != "us-east-1" {
		createBucketCfg = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.Cfg.Region),
		}
	}
	_, err = s.Client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket:                    aws.String(bucketName),
		CreateBucketConfiguration: createBucketCfg,
	})
	if err != nil {
		var alreadyOwnedError *types.BucketAlreadyOwnedByYou
		var alreadyExistsError *types.BucketAlreadyExists
		if errors.As(err, &alreadyOwnedError) || errors.As(err, &alreadyExistsError) {
			return nil
		}
		return fmt.Errorf("failed to create bucket '%s': %w", bucketName, err)
	}

	log.Info("bucket created", "bucket", bucketName)
	return nil
}
