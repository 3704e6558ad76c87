package usecase

import (
	"fmt"
	"unicode/utf8"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FilterOption はセレクトの1項目。Value が空なら「すべて」。
type FilterOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FilterView は現在の選択と選択肢
type FilterView struct {
	Type           string         `json:"type"`
	Subtype        string         `json:"subtype"`
	TypeOptions    []FilterOption `json:"type_options"`
	SubtypeOptions []FilterOption `json:"subtype_options"`
}

// filterState は nil が「すべて」
type filterState struct {
	typ     *string
	subtype *string
}

func (f filterState) match(p model.Product) bool {
	if f.typ == nil {
		return true
	}
	if p.Type != *f.typ {
		return false
	}
	return f.subtype == nil || p.Subtype == *f.subtype
}

func (f filterState) apply(products []model.Product) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if f.match(p) {
			out = append(out, p)
		}
	}
	return out
}

var upperCaser = cases.Upper(language.Ukrainian)

// capitalize は先頭の1文字だけ大文字にする（"t-shirts" → "T-shirts"）
func capitalize(s string) string {
	_, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return upperCaser.String(s[:n]) + s[n:]
}

// distinctTypes は最初に出た順
func distinctTypes(products []model.Product) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range products {
		if p.Type == "" || seen[p.Type] {
			continue
		}
		seen[p.Type] = true
		out = append(out, p.Type)
	}
	return out
}

// distinctSubtypes は指定タイプの中で最初に出た順
func distinctSubtypes(products []model.Product, typ string) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range products {
		if p.Type != typ || p.Subtype == "" || seen[p.Subtype] {
			continue
		}
		seen[p.Subtype] = true
		out = append(out, p.Subtype)
	}
	return out
}

func buildFilterView(products []model.Product, f filterState) FilterView {
	v := FilterView{
		TypeOptions:    []FilterOption{{Value: "", Label: MsgAllTypes}},
		SubtypeOptions: []FilterOption{{Value: "", Label: MsgAllSubtypes}},
	}
	for _, t := range distinctTypes(products) {
		v.TypeOptions = append(v.TypeOptions, FilterOption{Value: t, Label: capitalize(t)})
	}
	if f.typ == nil {
		return v
	}

	v.Type = *f.typ
	if f.subtype != nil {
		v.Subtype = *f.subtype
	}
	for _, s := range distinctSubtypes(products, *f.typ) {
		v.SubtypeOptions = append(v.SubtypeOptions, FilterOption{Value: s, Label: capitalize(s)})
	}
	return v
}

// ProductCard は一覧の1枚
type ProductCard struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Image      string              `json:"image"`
	Price      decimal.Decimal     `json:"price"`
	PriceLabel string              `json:"price_label"`
	Status     model.ProductStatus `json:"status"`
	LowStock   bool                `json:"low_stock"`
	OutOfStock bool                `json:"out_of_stock"`
}

// Section は在庫状態ごとのセクション。空なら Placeholder を出す。
type Section struct {
	Bucket      model.Bucket  `json:"bucket"`
	Title       string        `json:"title"`
	Cards       []ProductCard `json:"cards"`
	Placeholder string        `json:"placeholder,omitempty"`
	Error       bool          `json:"error,omitempty"`
}

var sectionTitles = map[model.Bucket]string{
	model.BucketPreorder:   MsgSectionPreorder,
	model.BucketInStock:    MsgSectionInStock,
	model.BucketOutOfStock: MsgSectionOutStock,
}

func placeholderSections(text string, isErr bool) []Section {
	out := make([]Section, 0, len(model.Buckets))
	for _, b := range model.Buckets {
		out = append(out, Section{Bucket: b, Title: sectionTitles[b], Cards: []ProductCard{}, Placeholder: text, Error: isErr})
	}
	return out
}

// buildSections は絞り込み結果を3つのセクションに分ける。
func buildSections(products []model.Product) []Section {
	byBucket := map[model.Bucket][]ProductCard{}
	for _, p := range products {
		b := p.Status.Bucket()
		byBucket[b] = append(byBucket[b], ProductCard{
			ID:         p.ID,
			Name:       p.Name,
			Image:      p.Image,
			Price:      p.Price,
			PriceLabel: FormatPrice(p.Price),
			Status:     p.Status,
			LowStock:   p.IsLowStock(),
			OutOfStock: p.IsOutOfStock(),
		})
	}

	out := make([]Section, 0, len(model.Buckets))
	for _, b := range model.Buckets {
		s := Section{Bucket: b, Title: sectionTitles[b], Cards: byBucket[b]}
		if len(s.Cards) == 0 {
			s.Cards = []ProductCard{}
			s.Placeholder = MsgEmptySection
		}
		out = append(out, s)
	}
	return out
}

var pricePrinter = message.NewPrinter(language.Ukrainian)

// FormatPrice は桁区切り付きで通貨を付ける（例: 1 500 грн）。
func FormatPrice(d decimal.Decimal) string {
	if d.IsInteger() {
		return pricePrinter.Sprintf("%d %s", d.IntPart(), MsgCurrency)
	}
	f, _ := d.Round(2).Float64()
	return pricePrinter.Sprintf("%.2f %s", f, MsgCurrency)
}

func (f filterState) String() string {
	t, s := "*", "*"
	if f.typ != nil {
		t = *f.typ
	}
	if f.subtype != nil {
		s = *f.subtype
	}
	return fmt.Sprintf("%s/%s", t, s)
}
