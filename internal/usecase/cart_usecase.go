package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// CartStorageKey はセッションストレージのキー
const CartStorageKey = "cart"

// CartUsecase はカートの状態を持つ（Cart Manager）。
// 同時実行は想定しない。ViewUsecase のロックの内側で呼ぶ。
type CartUsecase struct {
	catalog repo.CatalogRepository
	storage repo.SessionStorage
	metrics Metrics

	lines  []model.CartLine
	notify func(CartSnapshot)
}

// NewCartUsecase はストレージから復元してカートを作る。
// セッションごとにストレージが分かれているので、新しいセッションは常に空から始まる。
func NewCartUsecase(ctx context.Context, catalog repo.CatalogRepository, storage repo.SessionStorage, metrics Metrics) (*CartUsecase, error) {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	u := &CartUsecase{
		catalog: catalog,
		storage: storage,
		metrics: metrics,
		lines:   []model.CartLine{},
	}
	if err := u.restore(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

// OnChange は変更ごとに同期で呼ばれるコールバックを登録する。
func (u *CartUsecase) OnChange(fn func(CartSnapshot)) {
	u.notify = fn
}

// CartLineView は表示用の明細（商品を解決済み）
type CartLineView struct {
	ProductID string          `json:"product_id"`
	Size      model.Size      `json:"size"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Sum       decimal.Decimal `json:"sum"`
}

// CartSnapshot はカートの現在値
// Lines は保存されている全行、Items はカタログで解決できた行だけ。
type CartSnapshot struct {
	Lines []model.CartLine `json:"lines"`
	Items []CartLineView   `json:"items"`
	Count int              `json:"count"`
	Total decimal.Decimal  `json:"total"`
}

func (s CartSnapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

// Snapshot は呼んだ時点のカタログで価格を解決する（キャッシュしない）。
func (u *CartUsecase) Snapshot() CartSnapshot {
	lines := make([]model.CartLine, len(u.lines))
	copy(lines, u.lines)

	items := make([]CartLineView, 0, len(lines))
	count := 0
	total := decimal.Zero

	for _, l := range lines {
		count += l.Quantity

		//カタログに無い商品は合計と表示から外す
		p, err := u.catalog.FindByID(l.ProductID)
		if err != nil {
			continue
		}

		sum := p.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		total = total.Add(sum)
		items = append(items, CartLineView{
			ProductID: l.ProductID,
			Size:      l.Size,
			Quantity:  l.Quantity,
			Name:      p.Name,
			Image:     p.Image,
			UnitPrice: p.Price,
			Sum:       sum,
		})
	}

	return CartSnapshot{Lines: lines, Items: items, Count: count, Total: total}
}

// Add は同じ(商品,サイズ)があれば+1、無ければ数量1で末尾に追加。
func (u *CartUsecase) Add(ctx context.Context, productID string, size model.Size) error {
	p, err := u.catalog.FindByID(productID)
	if err != nil {
		return ErrProductNotFound
	}
	if p.IsOutOfStock() {
		return ErrOutOfStock
	}

	if i := u.indexOf(productID, size); i >= 0 {
		u.lines[i].Quantity = model.ClampQuantity(u.lines[i].Quantity + 1)
	} else {
		u.lines = append(u.lines, model.CartLine{ProductID: productID, Size: size, Quantity: 1})
	}

	return u.commit(ctx, "add")
}

// SetQuantity は入力値の先頭の整数を読む（"2.5" は 2、"3шт" は 3）。
// 正の整数でなければ Remove と同じ。上限を超える値は上限にそろえる。
func (u *CartUsecase) SetQuantity(ctx context.Context, productID string, size model.Size, value string) error {
	qty, ok := parseLeadingInt(value)
	if !ok || qty <= 0 {
		return u.Remove(ctx, productID, size)
	}

	i := u.indexOf(productID, size)
	if i < 0 {
		return nil
	}
	u.lines[i].Quantity = model.ClampQuantity(qty)

	return u.commit(ctx, "set_quantity")
}

// ChangeQuantity は数量に delta を足す。0以下になったら行を消す。
func (u *CartUsecase) ChangeQuantity(ctx context.Context, productID string, size model.Size, delta int) error {
	i := u.indexOf(productID, size)
	if i < 0 {
		return nil
	}

	//delta も上限で抑えるのでオーバーフローしない
	delta = max(min(delta, model.MaxQuantity), -model.MaxQuantity)
	next := u.lines[i].Quantity + delta
	if next <= 0 {
		return u.Remove(ctx, productID, size)
	}
	u.lines[i].Quantity = model.ClampQuantity(next)

	return u.commit(ctx, "change_quantity")
}

// Remove は冪等。
func (u *CartUsecase) Remove(ctx context.Context, productID string, size model.Size) error {
	kept := u.lines[:0]
	for _, l := range u.lines {
		if !l.Matches(productID, size) {
			kept = append(kept, l)
		}
	}
	u.lines = kept

	return u.commit(ctx, "remove")
}

// Clear は注文の引き渡し後に呼ぶ。
func (u *CartUsecase) Clear(ctx context.Context) error {
	u.lines = []model.CartLine{}
	return u.commit(ctx, "clear")
}

func (u *CartUsecase) indexOf(productID string, size model.Size) int {
	for i, l := range u.lines {
		if l.Matches(productID, size) {
			return i
		}
	}
	return -1
}

// commit は全行を保存してから通知する。保存に失敗してもメモリの状態と表示は揃える。
func (u *CartUsecase) commit(ctx context.Context, op string) error {
	entries := make([]model.CartEntry, 0, len(u.lines))
	for _, l := range u.lines {
		entries = append(entries, l.Entry())
	}

	var saveErr error
	b, err := json.Marshal(entries)
	if err != nil {
		saveErr = errors.Join(ErrCartNotSaved, fmt.Errorf("encode cart: %w", err))
	} else if err := u.storage.SetItem(ctx, CartStorageKey, string(b)); err != nil {
		saveErr = errors.Join(ErrCartNotSaved, fmt.Errorf("save cart: %w", err))
	}

	u.metrics.CartMutated(op)
	if u.notify != nil {
		u.notify(u.Snapshot())
	}
	return saveErr
}

// restore は保存済みの行を読み直す。重複は合算し、数量0以下は捨てる。
func (u *CartUsecase) restore(ctx context.Context) error {
	raw, ok, err := u.storage.GetItem(ctx, CartStorageKey)
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}

	var entries []model.CartEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return fmt.Errorf("decode cart: %w", err)
	}

	for _, e := range entries {
		l := e.Line()
		if l.ProductID == "" || l.Quantity <= 0 {
			continue
		}
		l.Quantity = model.ClampQuantity(l.Quantity)
		if i := u.indexOf(l.ProductID, l.Size); i >= 0 {
			u.lines[i].Quantity = model.ClampQuantity(u.lines[i].Quantity + l.Quantity)
			continue
		}
		u.lines = append(u.lines, l)
	}
	return nil
}

// parseLeadingInt は前後の空白を落とし、符号と続く数字だけを読む。
// 数字が1つも無ければ false。桁が多すぎる値は上限より大きい値に丸める。
func parseLeadingInt(value string) (int, bool) {
	s := strings.TrimSpace(value)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		//範囲外
		n = model.MaxQuantity + 1
	}
	if neg {
		n = -n
	}
	return n, true
}
