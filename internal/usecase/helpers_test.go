package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/infra/catalog"
	infraRepo "storefront/internal/infra/repository"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// =====================
// カタログ
// =====================

func testProducts() []model.Product {
	return []model.Product{
		{ID: "p1", Name: "Кепка", Price: decimal.NewFromInt(500), Type: "accessories", Subtype: "caps", Status: model.StatusInStock},
		{ID: "p2", Name: "Кросівки", Price: decimal.NewFromInt(300), Type: "shoes", Subtype: "sneakers", Status: model.StatusInStock, Sizes: []string{"S", "M", "L"}},
		{ID: "p3", Name: "Черевики", Price: decimal.NewFromInt(900), Type: "shoes", Subtype: "boots", Status: model.StatusLowStock, Sizes: []string{"42"}},
		{ID: "p4", Name: "Худі", Price: decimal.NewFromInt(700), Type: "clothes", Status: model.StatusPreorder},
		{ID: "p5", Name: "Шкарпетки", Price: decimal.NewFromInt(100), Type: "clothes", Subtype: "socks", Status: model.StatusOutOfStock},
	}
}

func newCatalog() *catalog.Store {
	return catalog.NewStaticStore(testProducts())
}

// =====================
// ストレージ
// =====================

func newStorage() repo.SessionStorage {
	return infraRepo.NewSessionMemoryRepository().Scope("s1")
}

// brokenStorage は書き込みが常に失敗する
type brokenStorage struct{}

func (brokenStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (brokenStorage) SetItem(ctx context.Context, key string, value string) error {
	return errors.New("quota exceeded")
}

func (brokenStorage) RemoveItem(ctx context.Context, key string) error {
	return nil
}

// =====================
// スケジューラ（手で進める）
// =====================

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
	leaky   bool
}

func (t *fakeTimer) Stop() bool {
	if t.leaky {
		//止められない（既に発火してロック待ちの状態を再現）
		return false
	}
	wasPending := !t.stopped && !t.fired
	t.stopped = true
	return wasPending
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
	leaky  bool
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) usecase.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f, leaky: s.leaky}
	s.timers = append(s.timers, t)
	return t
}

// Flush は止められていないタイマーを予約順に全部発火する。
func (s *fakeScheduler) Flush() {
	for {
		s.mu.Lock()
		var next *fakeTimer
		for _, t := range s.timers {
			if !t.fired && (!t.stopped || t.leaky) {
				next = t
				break
			}
		}
		if next != nil {
			next.fired = true
		}
		s.mu.Unlock()

		if next == nil {
			return
		}
		next.f()
	}
}

// Pending は未発火のタイマー数
func (s *fakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// =====================
// メトリクス
// =====================

type countingMetrics struct {
	cart      sync.Map
	handoffs  atomic.Int64
	fallbacks atomic.Int64
	clipboard atomic.Int64
}

func (m *countingMetrics) CartMutated(op string) {
	v, _ := m.cart.LoadOrStore(op, new(atomic.Int64))
	v.(*atomic.Int64).Add(1)
}

func (m *countingMetrics) CheckoutHandedOff(fallback bool) {
	m.handoffs.Add(1)
	if fallback {
		m.fallbacks.Add(1)
	}
}

func (m *countingMetrics) ClipboardFailed() {
	m.clipboard.Add(1)
}

func (m *countingMetrics) cartOps(op string) int64 {
	v, ok := m.cart.Load(op)
	if !ok {
		return 0
	}
	return v.(*atomic.Int64).Load()
}

// =====================
// 組み立て
// =====================

type viewFixture struct {
	view    *usecase.ViewUsecase
	sched   *fakeScheduler
	storage repo.SessionStorage
	metrics *countingMetrics
}

func newView(t *testing.T, cat repo.CatalogRepository) viewFixture {
	t.Helper()
	return newViewWith(t, cat, newStorage(), &fakeScheduler{})
}

func newViewWith(t *testing.T, cat repo.CatalogRepository, storage repo.SessionStorage, sched *fakeScheduler) viewFixture {
	t.Helper()
	m := &countingMetrics{}
	v, err := usecase.NewViewUsecase(context.Background(), cat, storage, usecase.ViewConfig{
		Scheduler:   sched,
		CheckoutURL: "https://t.me/test_bot",
		Metrics:     m,
	})
	require.NoError(t, err)
	t.Cleanup(v.Close)
	return viewFixture{view: v, sched: sched, storage: storage, metrics: m}
}

func overlayState(v *usecase.ViewUsecase, o model.Overlay) model.OverlayState {
	return v.Snapshot().Overlays[o]
}

// requireDimmerConsistent は背景の表示がモーダルの状態から導かれていることを確かめる。
func requireDimmerConsistent(t *testing.T, snap usecase.ViewSnapshot) {
	t.Helper()
	visible := false
	for _, s := range snap.Overlays {
		if s.Visible() {
			visible = true
		}
	}
	require.Equal(t, visible, snap.DimmerVisible, "overlays=%v dimmer=%v", snap.Overlays, snap.Dimmer)
	require.Equal(t, visible, snap.ScrollLocked)
}
