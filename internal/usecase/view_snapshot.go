package usecase

import (
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// SizeSelectorView はサイズが無い商品では Visible=false（丸ごと隠す）。
type SizeSelectorView struct {
	Visible  bool       `json:"visible"`
	Options  []string   `json:"options"`
	Selected model.Size `json:"selected"`
}

type AddButtonView struct {
	Disabled   bool   `json:"disabled"`
	Label      string `json:"label"`
	OutOfStock bool   `json:"out_of_stock"`
}

type ProductModalView struct {
	Product      model.Product    `json:"product"`
	PriceLabel   string           `json:"price_label"`
	SizeSelector SizeSelectorView `json:"size_selector"`
	AddButton    AddButtonView    `json:"add_button"`
}

// ViewSnapshot は描画側に渡す状態一式
type ViewSnapshot struct {
	Version           uint64                               `json:"version"`
	Catalog           repo.CatalogStatus                   `json:"catalog"`
	CatalogError      string                               `json:"catalog_error,omitempty"`
	Filter            FilterView                           `json:"filter"`
	Sections          []Section                            `json:"sections"`
	Overlays          map[model.Overlay]model.OverlayState `json:"overlays"`
	Dimmer            model.OverlayState                   `json:"dimmer"`
	DimmerVisible     bool                                 `json:"dimmer_visible"`
	ScrollLocked      bool                                 `json:"scroll_locked"`
	ProductModal      *ProductModalView                    `json:"product_modal,omitempty"`
	Cart              CartSnapshot                         `json:"cart"`
	CartButtonVisible bool                                 `json:"cart_button_visible"`
	Order             *model.OrderDraft                    `json:"order,omitempty"`
	Fragment          string                               `json:"fragment"`
	Prompt            string                               `json:"prompt,omitempty"`
}

func (v *ViewUsecase) Snapshot() ViewSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

func (v *ViewUsecase) snapshotLocked() ViewSnapshot {
	products := v.catalog.List()
	status := v.catalog.Status()

	snap := ViewSnapshot{
		Version:       v.version,
		Catalog:       status,
		Filter:        buildFilterView(products, v.filter),
		Overlays:      v.overlays.states(),
		Dimmer:        v.overlays.dimmer(),
		DimmerVisible: v.overlays.anyVisible(),
		ScrollLocked:  v.overlays.anyVisible(),
		Cart:          v.cart.Snapshot(),
		Fragment:      v.fragment,
		Prompt:        v.prompt,
	}
	snap.CartButtonVisible = !snap.Cart.IsEmpty()

	switch status {
	case repo.CatalogLoading:
		snap.Sections = placeholderSections(MsgLoading, false)
	case repo.CatalogFailed:
		snap.Sections = placeholderSections(MsgCatalogFailed, true)
		if err := v.catalog.Err(); err != nil {
			snap.CatalogError = err.Error()
		}
	default:
		snap.Sections = buildSections(v.filter.apply(products))
	}

	//閉じるアニメーション中は内容を残す
	if v.current != nil && v.overlays.state(model.OverlayProduct) != model.Closed {
		snap.ProductModal = productModalView(*v.current, v.selectedSize)
	}
	if v.order != nil {
		o := *v.order
		snap.Order = &o
	}
	return snap
}

func productModalView(p model.Product, selected model.Size) *ProductModalView {
	mv := &ProductModalView{
		Product:    p,
		PriceLabel: FormatPrice(p.Price),
		AddButton:  AddButtonView{Label: MsgAddToCart},
	}
	if p.HasSizes() {
		mv.SizeSelector = SizeSelectorView{
			Visible:  true,
			Options:  append([]string(nil), p.Sizes...),
			Selected: selected,
		}
	}
	if p.IsOutOfStock() {
		mv.AddButton = AddButtonView{Disabled: true, Label: MsgSoldOut, OutOfStock: true}
	}
	return mv
}
