package model

import (
	"slices"

	"github.com/shopspring/decimal"
)

// ProductStatus は在庫状態
type ProductStatus string

const (
	StatusInStock    ProductStatus = "in_stock"
	StatusLowStock   ProductStatus = "low_stock"
	StatusOutOfStock ProductStatus = "out_of_stock"
	StatusPreorder   ProductStatus = "preorder"
)

// Bucket は一覧の表示セクション
type Bucket string

const (
	BucketPreorder   Bucket = "preorder"
	BucketInStock    Bucket = "in_stock"
	BucketOutOfStock Bucket = "out_of_stock"
)

// Buckets は表示順
var Buckets = []Bucket{BucketPreorder, BucketInStock, BucketOutOfStock}

// Bucket は状態からセクションを決める。不明な状態は在庫ありに入れる。
func (s ProductStatus) Bucket() Bucket {
	switch s {
	case StatusPreorder:
		return BucketPreorder
	case StatusOutOfStock:
		return BucketOutOfStock
	default:
		return BucketInStock
	}
}

// Product はカタログの商品（読み取り専用）
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Type        string          `json:"type"`
	Subtype     string          `json:"subtype,omitempty"`
	Status      ProductStatus   `json:"status"`
	Sizes       []string        `json:"sizes,omitempty"`
}

func (p Product) IsOutOfStock() bool {
	return p.Status == StatusOutOfStock
}

func (p Product) IsLowStock() bool {
	return p.Status == StatusLowStock
}

func (p Product) HasSizes() bool {
	return len(p.Sizes) > 0
}

// HasSize はサイズが商品の一覧に含まれるか
func (p Product) HasSize(size Size) bool {
	if size.IsNone() {
		return false
	}
	return slices.Contains(p.Sizes, string(size))
}

// CatalogDocument は products.json の形
type CatalogDocument struct {
	Products []Product `json:"products"`
}
