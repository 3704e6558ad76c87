package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	repo "storefront/internal/repository"
)

// SourceOptions は S3 用の追加設定
type SourceOptions struct {
	AWSRegion  string
	S3Endpoint string
}

// NewSource は場所の書き方で取得元を選ぶ。
// s3://bucket/key, http(s)://..., それ以外はファイルパス。
func NewSource(ctx context.Context, location string, opts SourceOptions) (repo.CatalogSource, error) {
	switch {
	case strings.HasPrefix(location, "s3://"):
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("catalog location: %w", err)
		}
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("catalog location: want s3://bucket/key, got %q", location)
		}
		return NewS3Source(ctx, opts.AWSRegion, opts.S3Endpoint, u.Host, key)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTPSource(location, nil), nil
	default:
		return NewFileSource(location), nil
	}
}
