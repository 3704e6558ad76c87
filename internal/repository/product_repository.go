package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// CatalogStatus は起動時の一回きりの読み込み状態
type CatalogStatus string

const (
	CatalogLoading CatalogStatus = "loading"
	CatalogReady   CatalogStatus = "ready"
	CatalogFailed  CatalogStatus = "failed"
)

// 商品カタログの参照だけを約束（セッション中は不変）。
type CatalogRepository interface {
	Status() CatalogStatus
	// Err は失敗時の原因。それ以外は nil。
	Err() error
	// Ready は読み込みが終わる（成功/失敗）と閉じる。
	Ready() <-chan struct{}
	List() []model.Product
	FindByID(id string) (model.Product, error)
}

// カタログの取得元（HTTP / ファイル / S3）
type CatalogSource interface {
	Fetch(ctx context.Context) ([]model.Product, error)
}
