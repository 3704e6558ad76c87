package session

import (
	"context"
	"errors"
	"sync"
	"time"

	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

var ErrInvalidSessionID = errors.New("invalid session id")

// Factory は新しいセッションの ViewUsecase を作る。
type Factory func(ctx context.Context, storage repo.SessionStorage) (*usecase.ViewUsecase, error)

// Gauge はセッション数の計測先
type Gauge interface {
	SessionsActive(n int)
}

// Registry はセッションIDごとの ViewUsecase を持つ。
// 上限と無操作時間で追い出し、追い出したらタイマーを止めてストレージを消す。
type Registry struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *usecase.ViewUsecase]
	store    repo.SessionStore
	factory  Factory
	gauge    Gauge
	logger   *zap.Logger
}

func NewRegistry(size int, ttl time.Duration, store repo.SessionStore, factory Factory, gauge Gauge, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		store:   store,
		factory: factory,
		gauge:   gauge,
		logger:  logger,
	}
	r.sessions = expirable.NewLRU[string, *usecase.ViewUsecase](size, r.evicted, ttl)
	return r
}

// Get は無ければ作る。取得するたびに寿命を延ばす。
func (r *Registry) Get(ctx context.Context, sessionID string) (*usecase.ViewUsecase, error) {
	if sessionID == "" {
		return nil, ErrInvalidSessionID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.sessions.Get(sessionID); ok {
		r.sessions.Add(sessionID, v)
		return v, nil
	}

	v, err := r.factory(ctx, r.store.Scope(sessionID))
	if err != nil {
		return nil, err
	}
	r.sessions.Add(sessionID, v)
	r.report()

	r.logger.Debug("session created", zap.String("session_id", sessionID))
	return v, nil
}

// Remove は明示的にセッションを終わらせる。
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions.Remove(sessionID)
	r.report()
}

func (r *Registry) Len() int {
	return r.sessions.Len()
}

func (r *Registry) evicted(sessionID string, v *usecase.ViewUsecase) {
	v.Close()
	if err := r.store.Drop(context.Background(), sessionID); err != nil {
		r.logger.Warn("session storage not dropped", zap.String("session_id", sessionID), zap.Error(err))
	}
	r.logger.Debug("session evicted", zap.String("session_id", sessionID))
}

func (r *Registry) report() {
	if r.gauge != nil {
		r.gauge.SessionsActive(r.sessions.Len())
	}
}
