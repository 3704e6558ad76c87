package catalog

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/domain/model"
)

// FileSource はローカルの products.json
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Fetch(ctx context.Context) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("catalog open: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}
