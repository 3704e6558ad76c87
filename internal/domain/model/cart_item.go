package model

// CartEntry はセッションストレージに保存する形 {id,size,qty}
// サイズなしは null で書く。
type CartEntry struct {
	ID   string  `json:"id"`
	Size *string `json:"size"`
	Qty  int     `json:"qty"`
}

func (l CartLine) Entry() CartEntry {
	return CartEntry{ID: l.ProductID, Size: l.Size.Ptr(), Qty: l.Quantity}
}

func (e CartEntry) Line() CartLine {
	return CartLine{ProductID: e.ID, Size: SizeFromPtr(e.Size), Quantity: e.Qty}
}
