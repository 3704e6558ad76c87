package model

import "github.com/shopspring/decimal"

// OrderDraft は注文確認モーダルに出す内容
// Encoded はボットに渡す機械可読の文字列、Preview は人向けの複数行テキスト。
type OrderDraft struct {
	Items   []OrderItem     `json:"items"`
	Total   decimal.Decimal `json:"total"`
	Encoded string          `json:"encoded"`
	Preview string          `json:"preview"`
}
