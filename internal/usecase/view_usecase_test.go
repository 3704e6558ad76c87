package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/infra/catalog"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// =====================
// モーダルの状態遷移
// =====================

func TestViewUsecase_ProductModalLifecycle(t *testing.T) {
	f := newView(t, newCatalog())
	v := f.view

	require.NoError(t, v.OpenProduct("p1"))
	snap := v.Snapshot()
	assert.Equal(t, model.Opening, snap.Overlays[model.OverlayProduct])
	assert.Equal(t, "p1", snap.Fragment)
	requireDimmerConsistent(t, snap)

	f.sched.Flush()
	snap = v.Snapshot()
	assert.Equal(t, model.Open, snap.Overlays[model.OverlayProduct])
	assert.Equal(t, model.Open, snap.Dimmer)
	requireDimmerConsistent(t, snap)

	v.CloseProduct()
	snap = v.Snapshot()
	assert.Equal(t, model.Closing, snap.Overlays[model.OverlayProduct])
	assert.Empty(t, snap.Fragment)
	assert.False(t, snap.DimmerVisible)
	requireDimmerConsistent(t, snap)

	f.sched.Flush()
	assert.Equal(t, model.Closed, overlayState(v, model.OverlayProduct))
	assert.Zero(t, f.sched.Pending())
}

func TestViewUsecase_ReopenDuringCloseCancelsStaleTimer(t *testing.T) {
	f := newView(t, newCatalog())
	v := f.view

	v.OpenCart()
	f.sched.Flush()
	v.CloseCart()
	//閉じるアニメーション中に開き直す
	v.OpenCart()
	f.sched.Flush()

	snap := v.Snapshot()
	assert.Equal(t, model.Open, snap.Overlays[model.OverlayCart])
	requireDimmerConsistent(t, snap)
}

func TestViewUsecase_FiredStaleTimerIsIgnored(t *testing.T) {
	//Stop が効かない（発火済みでロック待ち）タイマーでも世代で弾く
	f := newViewWith(t, newCatalog(), newStorage(), &fakeScheduler{leaky: true})
	v := f.view

	v.OpenCart()
	f.sched.Flush()
	v.CloseCart()
	v.OpenCart()
	f.sched.Flush()

	assert.Equal(t, model.Open, overlayState(v, model.OverlayCart))
}

func TestViewUsecase_OpenWhileVisibleIsNoop(t *testing.T) {
	f := newView(t, newCatalog())
	v := f.view

	v.OpenCart()
	before := f.sched.Pending()
	v.OpenCart()
	assert.Equal(t, before, f.sched.Pending())
	assert.Equal(t, model.Opening, overlayState(v, model.OverlayCart))
}

func TestViewUsecase_TapDimmerClosesEverything(t *testing.T) {
	f := newView(t, newCatalog())
	v := f.view

	require.NoError(t, v.OpenProduct("p1"))
	v.OpenCart()
	f.sched.Flush()

	v.TapDimmer()
	snap := v.Snapshot()
	assert.Equal(t, model.Closing, snap.Overlays[model.OverlayProduct])
	assert.Equal(t, model.Closing, snap.Overlays[model.OverlayCart])
	assert.Equal(t, model.Closed, snap.Overlays[model.OverlayOrder])
	assert.Empty(t, snap.Fragment)
	requireDimmerConsistent(t, snap)

	f.sched.Flush()
	snap = v.Snapshot()
	assert.Equal(t, model.Closed, snap.Dimmer)
	assert.False(t, snap.ScrollLocked)
}

func TestViewUsecase_SubscribeSeesTimerTransitions(t *testing.T) {
	f := newView(t, newCatalog())
	v := f.view

	var states []model.OverlayState
	v.Subscribe(func(s usecase.ViewSnapshot) {
		states = append(states, s.Overlays[model.OverlayCart])
	})

	v.OpenCart()
	f.sched.Flush()
	assert.Equal(t, []model.OverlayState{model.Opening, model.Open}, states)
}

func TestViewUsecase_RealSchedulerReachesOpen(t *testing.T) {
	v, err := usecase.NewViewUsecase(context.Background(), newCatalog(), newStorage(), usecase.ViewConfig{
		FrameDelay: time.Millisecond,
		CloseDelay: time.Millisecond,
	})
	require.NoError(t, err)
	defer v.Close()

	v.OpenCart()
	assert.Eventually(t, func() bool {
		return v.Snapshot().Overlays[model.OverlayCart] == model.Open
	}, time.Second, 5*time.Millisecond)

	v.CloseCart()
	assert.Eventually(t, func() bool {
		return v.Snapshot().Overlays[model.OverlayCart] == model.Closed
	}, time.Second, 5*time.Millisecond)
}

// =====================
// 商品モーダル
// =====================

func TestViewUsecase_SizeRequiredBeforeAdd(t *testing.T) {
	ctx := context.Background()
	f := newView(t, newCatalog())
	v := f.view

	require.NoError(t, v.OpenProduct("p2"))
	f.sched.Flush()

	modal := v.Snapshot().ProductModal
	require.NotNil(t, modal)
	assert.True(t, modal.SizeSelector.Visible)
	assert.Equal(t, []string{"S", "M", "L"}, modal.SizeSelector.Options)

	err := v.AddCurrentToCart(ctx)
	var ve *usecase.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, usecase.MsgChooseSize, ve.Message)

	snap := v.Snapshot()
	assert.Equal(t, usecase.MsgChooseSize, snap.Prompt)
	assert.True(t, snap.Cart.IsEmpty())
	assert.Equal(t, model.Open, snap.Overlays[model.OverlayProduct])

	require.NoError(t, v.SelectSize("M"))
	require.NoError(t, v.AddCurrentToCart(ctx))

	snap = v.Snapshot()
	assert.Empty(t, snap.Prompt)
	assert.Equal(t, []model.CartLine{{ProductID: "p2", Size: "M", Quantity: 1}}, snap.Cart.Lines)
	assert.Equal(t, model.Closing, snap.Overlays[model.OverlayProduct])
	assert.True(t, snap.CartButtonVisible)
}

func TestViewUsecase_UnsizedProductHidesSelector(t *testing.T) {
	f := newView(t, newCatalog())
	v := f.view

	require.NoError(t, v.OpenProduct("p1"))
	modal := v.Snapshot().ProductModal
	require.NotNil(t, modal)
	assert.False(t, modal.SizeSelector.Visible)
	assert.Equal(t, "500 грн", modal.PriceLabel)

	require.NoError(t, v.AddCurrentToCart(context.Background()))
	assert.Equal(t, 1, v.Snapshot().Cart.Count)
}

func TestViewUsecase_SelectUnknownSize(t *testing.T) {
	f := newView(t, newCatalog())
	v := f.view

	require.NoError(t, v.OpenProduct("p2"))
	err := v.SelectSize("XXL")
	var ve *usecase.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, usecase.MsgUnknownSize, ve.Message)
}

func TestViewUsecase_OutOfStockButton(t *testing.T) {
	f := newView(t, newCatalog())
	v := f.view

	require.NoError(t, v.OpenProduct("p5"))
	modal := v.Snapshot().ProductModal
	require.NotNil(t, modal)
	assert.True(t, modal.AddButton.Disabled)
	assert.True(t, modal.AddButton.OutOfStock)
	assert.Equal(t, usecase.MsgSoldOut, modal.AddButton.Label)

	err := v.AddCurrentToCart(context.Background())
	assert.ErrorIs(t, err, usecase.ErrOutOfStock)
	assert.True(t, v.Snapshot().Cart.IsEmpty())
}

func TestViewUsecase_OpenUnknownProduct(t *testing.T) {
	f := newView(t, newCatalog())
	err := f.view.OpenProduct("nope")
	assert.ErrorIs(t, err, usecase.ErrProductNotFound)
	assert.Equal(t, model.Closed, overlayState(f.view, model.OverlayProduct))
}

func TestViewUsecase_AddWithoutModal(t *testing.T) {
	f := newView(t, newCatalog())
	err := f.view.AddCurrentToCart(context.Background())
	assert.ErrorIs(t, err, usecase.ErrNoProductSelected)
}

func TestViewUsecase_ClosedModalRejectsProductActions(t *testing.T) {
	ctx := context.Background()
	f := newView(t, newCatalog())
	v := f.view

	require.NoError(t, v.OpenProduct("p2"))
	f.sched.Flush()
	v.CloseProduct()

	//閉じるアニメーション中は内容は残るが操作はできない
	snap := v.Snapshot()
	assert.Equal(t, model.Closing, snap.Overlays[model.OverlayProduct])
	assert.NotNil(t, snap.ProductModal)
	assert.ErrorIs(t, v.SelectSize("M"), usecase.ErrNoProductSelected)

	f.sched.Flush()
	assert.ErrorIs(t, v.AddCurrentToCart(ctx), usecase.ErrNoProductSelected)
	assert.ErrorIs(t, v.SelectSize("M"), usecase.ErrNoProductSelected)

	snap = v.Snapshot()
	assert.Equal(t, model.Closed, snap.Overlays[model.OverlayProduct])
	assert.Nil(t, snap.ProductModal)
	assert.True(t, snap.Cart.IsEmpty())
}

// =====================
// ディープリンク
// =====================

func TestViewUsecase_RestoreDeepLink(t *testing.T) {
	ctx := context.Background()

	f := newView(t, newCatalog())
	require.NoError(t, f.view.RestoreDeepLink(ctx, "#p1"))
	snap := f.view.Snapshot()
	assert.Equal(t, model.Opening, snap.Overlays[model.OverlayProduct])
	assert.Equal(t, "p1", snap.Fragment)

	//解決できないIDは何もしない
	g := newView(t, newCatalog())
	require.NoError(t, g.view.RestoreDeepLink(ctx, "#doesnotexist"))
	snap = g.view.Snapshot()
	assert.Equal(t, model.Closed, snap.Overlays[model.OverlayProduct])
	assert.Empty(t, snap.Fragment)
}

// gatedSource は release が閉じるまで返さない
type gatedSource struct {
	release chan struct{}
	err     error
}

func (s *gatedSource) Fetch(ctx context.Context) ([]model.Product, error) {
	<-s.release
	if s.err != nil {
		return nil, s.err
	}
	return testProducts(), nil
}

func TestViewUsecase_RestoreDeepLinkWaitsForCatalog(t *testing.T) {
	ctx := context.Background()
	src := &gatedSource{release: make(chan struct{})}
	store := catalog.NewStore(src)
	f := newView(t, store)

	done := make(chan error, 1)
	go func() { done <- f.view.RestoreDeepLink(ctx, "p3") }()

	go func() { _ = store.Load(ctx) }()
	close(src.release)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("deep link never restored")
	}
	assert.Equal(t, "p3", f.view.Snapshot().Fragment)
}

func TestViewUsecase_RestoreDeepLinkGivesUpWithContext(t *testing.T) {
	store := catalog.NewStore(&gatedSource{release: make(chan struct{})})
	f := newView(t, store)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := f.view.RestoreDeepLink(ctx, "#p1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// =====================
// 絞り込み
// =====================

func productIDs(ps []model.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestViewUsecase_FilterComposition(t *testing.T) {
	f := newView(t, newCatalog())
	v := f.view

	require.NoError(t, v.SetTypeFilter(strPtr("shoes")))
	assert.Equal(t, []string{"p2", "p3"}, productIDs(v.FilteredProducts()))

	fv := v.Snapshot().Filter
	assert.Equal(t, "shoes", fv.Type)
	assert.Equal(t, []usecase.FilterOption{
		{Value: "", Label: usecase.MsgAllSubtypes},
		{Value: "sneakers", Label: "Sneakers"},
		{Value: "boots", Label: "Boots"},
	}, fv.SubtypeOptions)

	require.NoError(t, v.SetSubtypeFilter(strPtr("sneakers")))
	assert.Equal(t, []string{"p2"}, productIDs(v.FilteredProducts()))

	//タイプを外すとサブタイプも外れる
	require.NoError(t, v.SetTypeFilter(nil))
	assert.Len(t, v.FilteredProducts(), len(testProducts()))
	assert.Empty(t, v.Snapshot().Filter.Subtype)

	require.NoError(t, v.SetTypeFilter(strPtr("shoes")))
	assert.Len(t, v.FilteredProducts(), 2)
}

func TestViewUsecase_TypeOptionsInFirstSeenOrder(t *testing.T) {
	f := newView(t, newCatalog())
	opts := f.view.Snapshot().Filter.TypeOptions

	require.Len(t, opts, 4)
	assert.Equal(t, usecase.FilterOption{Value: "", Label: usecase.MsgAllTypes}, opts[0])
	assert.Equal(t, []string{"accessories", "shoes", "clothes"}, []string{opts[1].Value, opts[2].Value, opts[3].Value})
	assert.Equal(t, "Accessories", opts[1].Label)
}

func TestViewUsecase_LabelsCapitaliseFirstLetterOnly(t *testing.T) {
	products := []model.Product{
		{ID: "a", Name: "Футболка", Price: decimal.NewFromInt(400), Type: "верхній одяг", Subtype: "t-shirts", Status: model.StatusInStock},
	}
	f := newView(t, catalog.NewStaticStore(products))
	v := f.view

	opts := v.Snapshot().Filter.TypeOptions
	require.Len(t, opts, 2)
	assert.Equal(t, "Верхній одяг", opts[1].Label)

	require.NoError(t, v.SetTypeFilter(strPtr("верхній одяг")))
	sub := v.Snapshot().Filter.SubtypeOptions
	require.Len(t, sub, 2)
	assert.Equal(t, "T-shirts", sub[1].Label)
}

func TestViewUsecase_FilterValidation(t *testing.T) {
	f := newView(t, newCatalog())
	v := f.view
	var ve *usecase.ValidationError

	err := v.SetSubtypeFilter(strPtr("sneakers"))
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, usecase.MsgChooseType, ve.Message)

	err = v.SetTypeFilter(strPtr("hats"))
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, usecase.MsgUnknownType, ve.Message)

	require.NoError(t, v.SetTypeFilter(strPtr("shoes")))
	err = v.SetSubtypeFilter(strPtr("caps"))
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, usecase.MsgUnknownSubtype, ve.Message)

	//失敗しても選択は変わらない
	assert.Equal(t, "shoes", v.Snapshot().Filter.Type)
}

func TestViewUsecase_SectionsByBucket(t *testing.T) {
	f := newView(t, newCatalog())
	v := f.view

	sections := v.Snapshot().Sections
	require.Len(t, sections, 3)
	assert.Equal(t, model.BucketPreorder, sections[0].Bucket)
	assert.Equal(t, model.BucketInStock, sections[1].Bucket)
	assert.Equal(t, model.BucketOutOfStock, sections[2].Bucket)

	require.Len(t, sections[1].Cards, 3)
	assert.True(t, sections[1].Cards[2].LowStock)
	require.Len(t, sections[2].Cards, 1)
	assert.True(t, sections[2].Cards[0].OutOfStock)

	//靴には予約も在庫切れもない
	require.NoError(t, v.SetTypeFilter(strPtr("shoes")))
	sections = v.Snapshot().Sections
	assert.Empty(t, sections[0].Cards)
	assert.Equal(t, usecase.MsgEmptySection, sections[0].Placeholder)
	assert.Equal(t, usecase.MsgEmptySection, sections[2].Placeholder)
	assert.Empty(t, sections[1].Placeholder)
}

func TestViewUsecase_CatalogLoadingAndFailure(t *testing.T) {
	src := &gatedSource{release: make(chan struct{}), err: errors.New("boom")}
	store := catalog.NewStore(src)
	f := newView(t, store)

	snap := f.view.Snapshot()
	assert.Equal(t, repo.CatalogLoading, snap.Catalog)
	for _, s := range snap.Sections {
		assert.Equal(t, usecase.MsgLoading, s.Placeholder)
		assert.False(t, s.Error)
	}

	close(src.release)
	require.Error(t, store.Load(context.Background()))

	snap = f.view.Snapshot()
	assert.Equal(t, repo.CatalogFailed, snap.Catalog)
	assert.Contains(t, snap.CatalogError, "boom")
	for _, s := range snap.Sections {
		assert.Equal(t, usecase.MsgCatalogFailed, s.Placeholder)
		assert.True(t, s.Error)
	}
}

func TestViewUsecase_CartButtonHiddenWhenEmpty(t *testing.T) {
	f := newView(t, newCatalog())
	v := f.view
	assert.False(t, v.Snapshot().CartButtonVisible)

	require.NoError(t, v.AddToCart(context.Background(), "p1", model.NoSize))
	assert.True(t, v.Snapshot().CartButtonVisible)
	assert.Equal(t, 1, v.Snapshot().Cart.Count)
}

func TestViewUsecase_StorageFailureStillUpdatesView(t *testing.T) {
	f := newViewWith(t, newCatalog(), brokenStorage{}, &fakeScheduler{})
	require.NoError(t, f.view.AddToCart(context.Background(), "p1", model.NoSize))
	assert.Equal(t, 1, f.view.Snapshot().Cart.Count)
}
