package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

// ViewConfig は ViewUsecase の部品。ゼロ値はデフォルトで埋める。
type ViewConfig struct {
	Scheduler   Scheduler
	FrameDelay  time.Duration
	CloseDelay  time.Duration
	CheckoutURL string
	Logger      *zap.Logger
	Metrics     Metrics
}

// ViewUsecase は1セッション分の画面状態を持つ（View Coordinator）。
// 全ての遷移は mu の内側で最後まで走る。タイマーも同じ mu を取る。
type ViewUsecase struct {
	mu sync.Mutex

	catalog  repo.CatalogRepository
	cart     *CartUsecase
	overlays *overlayMachine

	filter       filterState
	current      *model.Product
	selectedSize model.Size
	order        *model.OrderDraft
	fragment     string
	prompt       string
	version      uint64

	checkoutURL string
	logger      *zap.Logger
	metrics     Metrics
	listeners   []func(ViewSnapshot)
}

func NewViewUsecase(ctx context.Context, catalog repo.CatalogRepository, storage repo.SessionStorage, cfg ViewConfig) (*ViewUsecase, error) {
	if cfg.Scheduler == nil {
		cfg.Scheduler = RealScheduler()
	}
	if cfg.FrameDelay <= 0 {
		cfg.FrameDelay = DefaultFrameDelay
	}
	if cfg.CloseDelay <= 0 {
		cfg.CloseDelay = DefaultCloseDelay
	}
	if cfg.CheckoutURL == "" {
		cfg.CheckoutURL = DefaultCheckoutURL
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NopMetrics{}
	}

	cart, err := NewCartUsecase(ctx, catalog, storage, cfg.Metrics)
	if err != nil {
		return nil, err
	}

	v := &ViewUsecase{
		catalog:     catalog,
		cart:        cart,
		checkoutURL: cfg.CheckoutURL,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
	v.overlays = newOverlayMachine(cfg.Scheduler, cfg.FrameDelay, cfg.CloseDelay, &v.mu, v.changed)
	cart.OnChange(func(CartSnapshot) { v.changed() })
	return v, nil
}

// Subscribe は状態が変わるたびに呼ばれる。mu を持ったまま呼ぶので中から ViewUsecase を触らないこと。
func (v *ViewUsecase) Subscribe(fn func(ViewSnapshot)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, fn)
}

// Close は残っているタイマーを止める。
func (v *ViewUsecase) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.overlays.stop()
}

func (v *ViewUsecase) changed() {
	v.version++
	if len(v.listeners) == 0 {
		return
	}
	snap := v.snapshotLocked()
	for _, fn := range v.listeners {
		fn(snap)
	}
}

// begin は操作の頭で前回のプロンプトを消す。
func (v *ViewUsecase) begin() {
	v.mu.Lock()
	v.prompt = ""
}

func (v *ViewUsecase) end() {
	v.mu.Unlock()
}

// reject はプロンプトを出して操作を止める。
func (v *ViewUsecase) reject(msg string) error {
	v.prompt = msg
	v.changed()
	return NewValidationError(msg)
}

// cartResult は保存失敗だけをログに落とす。メモリ上のカートは更新済み。
func (v *ViewUsecase) cartResult(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrCartNotSaved) {
		v.logger.Warn("cart not persisted", zap.Error(err))
		return nil
	}
	return err
}

// ---------- 絞り込み ----------

// SetTypeFilter は nil で全件。タイプが変わるとサブタイプは「すべて」に戻る。
func (v *ViewUsecase) SetTypeFilter(typ *string) error {
	v.begin()
	defer v.end()

	if typ == nil || *typ == "" {
		v.filter = filterState{}
		v.changed()
		return nil
	}

	if !containsString(distinctTypes(v.catalog.List()), *typ) {
		return v.reject(MsgUnknownType)
	}
	t := *typ
	v.filter = filterState{typ: &t}
	v.logger.Debug("filter changed", zap.Stringer("filter", v.filter))
	v.changed()
	return nil
}

// SetSubtypeFilter はタイプ選択済みが前提。nil はそのタイプの全サブタイプ。
func (v *ViewUsecase) SetSubtypeFilter(subtype *string) error {
	v.begin()
	defer v.end()

	if v.filter.typ == nil {
		return v.reject(MsgChooseType)
	}
	if subtype == nil || *subtype == "" {
		v.filter.subtype = nil
		v.changed()
		return nil
	}

	if !containsString(distinctSubtypes(v.catalog.List(), *v.filter.typ), *subtype) {
		return v.reject(MsgUnknownSubtype)
	}
	s := *subtype
	v.filter.subtype = &s
	v.logger.Debug("filter changed", zap.Stringer("filter", v.filter))
	v.changed()
	return nil
}

func (v *ViewUsecase) ResetFilter() {
	v.begin()
	defer v.end()

	v.filter = filterState{}
	v.changed()
}

// FilteredProducts は現在の絞り込み結果
func (v *ViewUsecase) FilteredProducts() []model.Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter.apply(v.catalog.List())
}

// ---------- 商品モーダル ----------

// OpenProduct は現在の商品を記録し、ディープリンクを商品IDにする。
func (v *ViewUsecase) OpenProduct(productID string) error {
	v.begin()
	defer v.end()

	return v.openProductLocked(productID)
}

func (v *ViewUsecase) openProductLocked(productID string) error {
	p, err := v.catalog.FindByID(productID)
	if err != nil {
		return ErrProductNotFound
	}

	v.current = &p
	v.selectedSize = model.NoSize
	v.fragment = p.ID
	v.overlays.open(model.OverlayProduct)
	v.changed()
	return nil
}

// SelectSize はサイズセレクトの値。空は未選択に戻す。
func (v *ViewUsecase) SelectSize(size model.Size) error {
	v.begin()
	defer v.end()

	if !v.productShownLocked() {
		return ErrNoProductSelected
	}
	if size.IsNone() {
		v.selectedSize = model.NoSize
		v.changed()
		return nil
	}
	if !v.current.HasSize(size) {
		return v.reject(MsgUnknownSize)
	}

	v.selectedSize = size
	v.changed()
	return nil
}

// productShownLocked は商品モーダルが開いている（開きかけを含む）か。
// 閉じた後は最後に見た商品が残っていても操作させない。
func (v *ViewUsecase) productShownLocked() bool {
	return v.current != nil && v.overlays.state(model.OverlayProduct).Visible()
}

func (v *ViewUsecase) CloseProduct() {
	v.begin()
	defer v.end()

	v.closeProductLocked()
}

func (v *ViewUsecase) closeProductLocked() {
	v.overlays.close(model.OverlayProduct)
	v.fragment = ""
	v.changed()
}

// AddCurrentToCart はモーダルの「カートに追加」。
// サイズがある商品で未選択ならプロンプトを出してカートは変えない。
func (v *ViewUsecase) AddCurrentToCart(ctx context.Context) error {
	v.begin()
	defer v.end()

	if !v.productShownLocked() {
		return ErrNoProductSelected
	}
	if v.current.IsOutOfStock() {
		return ErrOutOfStock
	}

	size := model.NoSize
	if v.current.HasSizes() {
		if v.selectedSize.IsNone() {
			return v.reject(MsgChooseSize)
		}
		size = v.selectedSize
	}

	if err := v.cartResult(v.cart.Add(ctx, v.current.ID, size)); err != nil {
		return err
	}

	v.closeProductLocked()
	return nil
}

// RestoreDeepLink は起動時のフラグメントから商品モーダルを開く。
// カタログの読み込みを待つ。解決できなければ何もしない。
func (v *ViewUsecase) RestoreDeepLink(ctx context.Context, fragment string) error {
	id := strings.TrimSpace(strings.TrimPrefix(fragment, "#"))
	if id == "" {
		return nil
	}

	select {
	case <-v.catalog.Ready():
	case <-ctx.Done():
		return ctx.Err()
	}

	v.begin()
	defer v.end()

	if _, err := v.catalog.FindByID(id); err != nil {
		return nil
	}
	return v.openProductLocked(id)
}

// ---------- カートモーダル ----------

func (v *ViewUsecase) OpenCart() {
	v.begin()
	defer v.end()

	v.overlays.open(model.OverlayCart)
	v.changed()
}

func (v *ViewUsecase) CloseCart() {
	v.begin()
	defer v.end()

	v.overlays.close(model.OverlayCart)
	v.changed()
}

// TapDimmer は開いているモーダルを全部閉じる。
func (v *ViewUsecase) TapDimmer() {
	v.begin()
	defer v.end()

	for _, o := range v.overlays.closeAll() {
		switch o {
		case model.OverlayProduct:
			v.fragment = ""
		case model.OverlayOrder:
			v.order = nil
		}
	}
	v.changed()
}

func (v *ViewUsecase) AddToCart(ctx context.Context, productID string, size model.Size) error {
	v.begin()
	defer v.end()
	return v.cartResult(v.cart.Add(ctx, productID, size))
}

func (v *ViewUsecase) SetQuantity(ctx context.Context, productID string, size model.Size, value string) error {
	v.begin()
	defer v.end()
	return v.cartResult(v.cart.SetQuantity(ctx, productID, size, value))
}

func (v *ViewUsecase) ChangeQuantity(ctx context.Context, productID string, size model.Size, delta int) error {
	v.begin()
	defer v.end()
	return v.cartResult(v.cart.ChangeQuantity(ctx, productID, size, delta))
}

func (v *ViewUsecase) RemoveFromCart(ctx context.Context, productID string, size model.Size) error {
	v.begin()
	defer v.end()
	return v.cartResult(v.cart.Remove(ctx, productID, size))
}

// ---------- 注文 ----------

// RequestCheckout は注文内容を組み立てて確認モーダルを開く。
func (v *ViewUsecase) RequestCheckout() (model.OrderDraft, error) {
	v.begin()
	defer v.end()

	snap := v.cart.Snapshot()
	if len(snap.Items) == 0 {
		return model.OrderDraft{}, ErrCartEmpty
	}

	draft := buildOrderDraft(snap)
	v.order = &draft
	v.overlays.close(model.OverlayCart)
	v.overlays.open(model.OverlayOrder)
	v.changed()
	return draft, nil
}

func (v *ViewUsecase) CancelOrder() {
	v.begin()
	defer v.end()

	v.overlays.close(model.OverlayOrder)
	v.order = nil
	v.changed()
}

// ConfirmOrder はクリップボードへのコピー（待たない）とボットへの引き渡しを行う。
// 新しいタブが開けなければ同じタブで遷移する。引き渡し後にカートを空にして全部閉じる。
func (v *ViewUsecase) ConfirmOrder(ctx context.Context, clip Clipboard, nav Navigator) (HandoffResult, error) {
	v.begin()
	defer v.end()

	if v.order == nil || !v.overlays.state(model.OverlayOrder).Visible() {
		return HandoffResult{}, ErrNoOrder
	}

	link, err := CheckoutLink(v.checkoutURL, v.order.Encoded)
	if err != nil {
		return HandoffResult{}, err
	}
	encoded := v.order.Encoded

	if clip != nil {
		go v.copyToClipboard(context.WithoutCancel(ctx), clip, encoded)
	}

	opened := nav.Open(ctx, link)
	if !opened {
		v.logger.Info("popup blocked, navigating in place", zap.String("url", link))
		nav.Navigate(ctx, link)
	}
	v.metrics.CheckoutHandedOff(!opened)

	if err := v.cartResult(v.cart.Clear(ctx)); err != nil {
		return HandoffResult{}, err
	}
	v.overlays.closeAll()
	v.fragment = ""
	v.order = nil
	v.changed()

	return HandoffResult{Encoded: encoded, URL: link, Fallback: !opened}, nil
}

func (v *ViewUsecase) copyToClipboard(ctx context.Context, clip Clipboard, text string) {
	if err := clip.WriteText(ctx, text); err != nil {
		v.logger.Warn("clipboard write failed", zap.Error(err))
		v.metrics.ClipboardFailed()
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
