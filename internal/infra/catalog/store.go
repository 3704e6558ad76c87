package catalog

import (
	"context"
	"sync"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// Store は起動時に一度だけ読み込むカタログ。読み込み後は不変。
type Store struct {
	source repo.CatalogSource

	mu       sync.RWMutex
	status   repo.CatalogStatus
	err      error
	products []model.Product
	index    map[string]int

	once sync.Once
	done chan struct{}
}

func NewStore(source repo.CatalogSource) *Store {
	return &Store{
		source: source,
		status: repo.CatalogLoading,
		index:  map[string]int{},
		done:   make(chan struct{}),
	}
}

// NewStaticStore は読み込み済みのカタログ（テストや埋め込み用）。
func NewStaticStore(products []model.Product) *Store {
	s := NewStore(nil)
	s.once.Do(func() { s.finish(products, nil) })
	return s
}

// Load は一回きり。2回目以降は最初の結果を返す。リトライはしない。
func (s *Store) Load(ctx context.Context) error {
	s.once.Do(func() {
		products, err := s.source.Fetch(ctx)
		s.finish(products, err)
	})
	return s.Err()
}

func (s *Store) finish(products []model.Product, err error) {
	s.mu.Lock()
	if err != nil {
		s.status = repo.CatalogFailed
		s.err = err
	} else {
		s.status = repo.CatalogReady
		s.products = products
		s.index = make(map[string]int, len(products))
		for i, p := range products {
			s.index[p.ID] = i
		}
	}
	s.mu.Unlock()

	close(s.done)
}

func (s *Store) Status() repo.CatalogStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *Store) Ready() <-chan struct{} {
	return s.done
}

// List は読み込み前/失敗時は空。
func (s *Store) List() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) FindByID(id string) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return s.products[i], nil
}
