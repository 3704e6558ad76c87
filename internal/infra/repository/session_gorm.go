package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionGormRepository はセッションストレージをDBに置く実装（複数台構成用）。
type SessionGormRepository struct {
	db *gorm.DB
}

// DI
func NewSessionGormRepository(db *gorm.DB) *SessionGormRepository {
	return &SessionGormRepository{db: db}
}

func (r *SessionGormRepository) Scope(sessionID string) repo.SessionStorage {
	return &sessionGormScope{db: r.db, sessionID: sessionID}
}

// セッションの全キーを削除
func (r *SessionGormRepository) Drop(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&model.SessionEntry{}).Error
}

type sessionGormScope struct {
	db        *gorm.DB
	sessionID string
}

func (s *sessionGormScope) GetItem(ctx context.Context, key string) (string, bool, error) {
	var entry model.SessionEntry

	err := s.db.WithContext(ctx).
		Where("session_id = ? AND key = ?", s.sessionID, key).
		First(&entry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// 同じキーは上書き
func (s *sessionGormScope) SetItem(ctx context.Context, key string, value string) error {
	entry := model.SessionEntry{
		SessionID: s.sessionID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

func (s *sessionGormScope) RemoveItem(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where("session_id = ? AND key = ?", s.sessionID, key).
		Delete(&model.SessionEntry{}).Error
}
