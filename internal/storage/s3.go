package storage

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads images to a bucket and returns their object URL.
type S3Store struct {
	client   s3API
	bucket   string
	prefix   string
	region   string
	endpoint string
	now      func() time.Time
	newID    func() string
}

// NewS3Store builds an S3 client from cfg. With AWS_ENDPOINT set (LocalStack)
// path-style addressing is used.
func NewS3Store(cfg sdkaws.Config, bucket, prefix string) *S3Store {
	endpoint := os.Getenv("AWS_ENDPOINT")
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.UsePathStyle = true
			o.BaseEndpoint = sdkaws.String(endpoint)
		}
	})
	return newS3Store(client, bucket, prefix, cfg.Region, endpoint)
}

func newS3Store(api s3API, bucket, prefix, region, endpoint string) *S3Store {
	return &S3Store{
		client:   api,
		bucket:   bucket,
		prefix:   prefix,
		region:   region,
		endpoint: strings.TrimSuffix(endpoint, "/"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *S3Store) Save(ctx context.Context, up Upload, _ string) (string, error) {
	name, err := ObjectName(up.Filename, up.ContentType, s.now(), s.newID())
	if err != nil {
		return "", err
	}
	key := s.prefix + name

	input := &s3.PutObjectInput{
		Bucket:      sdkaws.String(s.bucket),
		Key:         sdkaws.String(key),
		Body:        up.Body,
		ContentType: sdkaws.String(up.ContentType),
	}
	if up.Size > 0 {
		input.ContentLength = sdkaws.Int64(up.Size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3 put %s/%s: %w", s.bucket, key, err)
	}

	zap.L().Debug("image uploaded to s3", zap.String("bucket", s.bucket), zap.String("key", key))
	return s.objectURL(key), nil
}

func (s *S3Store) objectURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
