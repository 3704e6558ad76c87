package model

import "github.com/shopspring/decimal"

// 注文の1行（商品名を解決済み）
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Size      Size            `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Sum       decimal.Decimal `json:"sum"`
}
