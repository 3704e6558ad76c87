package catalog

import (
	"context"
	"fmt"

	"storefront/internal/domain/model"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Source はバケット上の products.json
type S3Source struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Source は既定の認証情報チェーンでクライアントを作る。
// endpoint を渡すと path-style で向き先を変える（MinIO など）。
func NewS3Source(ctx context.Context, region, endpoint, bucket, key string) (*S3Source, error) {
	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3SourceFromClient(client, bucket, key), nil
}

func NewS3SourceFromClient(client *s3.Client, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

func (s *S3Source) Fetch(ctx context.Context) ([]model.Product, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("catalog s3 get %s/%s: %w", s.bucket, s.key, err)
	}
	defer func() { _ = out.Body.Close() }()
	return Decode(out.Body)
}
