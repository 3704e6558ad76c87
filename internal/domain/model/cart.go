package model

// MaxQuantity は1行あたりの数量の上限
const MaxQuantity = 1000

// CartLine はカートの1行。(ProductID, Size) ごとに1つだけ。
type CartLine struct {
	ProductID string `json:"product_id"`
	Size      Size   `json:"size"`
	Quantity  int    `json:"quantity"`
}

func (l CartLine) Matches(productID string, size Size) bool {
	return l.ProductID == productID && l.Size == size
}

// ClampQuantity は上限で頭打ちにする（0以下はそのまま返す）
func ClampQuantity(qty int) int {
	if qty > MaxQuantity {
		return MaxQuantity
	}
	return qty
}
