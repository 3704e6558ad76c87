package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

// DefaultCheckoutURL はメッセージボットの入口
const DefaultCheckoutURL = "https://t.me/storefront_bot"

const (
	orderLineSeparator = "|"
	orderFieldSep      = ":"
	orderNoSize        = "_"
)

// Clipboard はベストエフォートのコピー先
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Navigator は外部URLを開く。Open が false ならポップアップがブロックされた。
type Navigator interface {
	Open(ctx context.Context, rawURL string) bool
	Navigate(ctx context.Context, rawURL string)
}

// HandoffResult は引き渡しの結果
type HandoffResult struct {
	Encoded  string `json:"encoded"`
	URL      string `json:"url"`
	Fallback bool   `json:"fallback"`
}

var orderFieldEscaper = strings.NewReplacer("%", "%25", ":", "%3A", "|", "%7C")

// EncodeOrder は productId:size-or-_:qty を | でつなぐ。
func EncodeOrder(lines []model.CartLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		size := orderNoSize
		if !l.Size.IsNone() {
			size = orderFieldEscaper.Replace(string(l.Size))
		}
		parts = append(parts, strings.Join([]string{
			orderFieldEscaper.Replace(l.ProductID),
			size,
			strconv.Itoa(l.Quantity),
		}, orderFieldSep))
	}
	return strings.Join(parts, orderLineSeparator)
}

// CheckoutLink は start=<base64url> を付けたボットのURL
func CheckoutLink(base string, encoded string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("checkout url: %w", err)
	}
	q := u.Query()
	q.Set("start", base64.RawURLEncoding.EncodeToString([]byte(encoded)))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// buildOrderDraft はカタログで解決できた行だけで注文を組み立てる。
func buildOrderDraft(snap CartSnapshot) model.OrderDraft {
	items := make([]model.OrderItem, 0, len(snap.Items))
	lines := make([]model.CartLine, 0, len(snap.Items))
	var preview strings.Builder

	for _, it := range snap.Items {
		items = append(items, model.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Size:      it.Size,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Sum:       it.Sum,
		})
		lines = append(lines, model.CartLine{ProductID: it.ProductID, Size: it.Size, Quantity: it.Quantity})

		preview.WriteString(it.Name)
		if !it.Size.IsNone() {
			fmt.Fprintf(&preview, " (%s %s)", MsgOrderSizePrefix, it.Size)
		}
		fmt.Fprintf(&preview, " × %d = %s\n", it.Quantity, FormatPrice(it.Sum))
	}
	fmt.Fprintf(&preview, "%s: %s", MsgOrderTotal, FormatPrice(snap.Total))

	return model.OrderDraft{
		Items:   items,
		Total:   totalOf(items),
		Encoded: EncodeOrder(lines),
		Preview: preview.String(),
	}
}

func totalOf(items []model.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Sum)
	}
	return total
}
