package repository

import "context"

// SessionStorage は1セッション分のキーバリュー（ブラウザの sessionStorage 相当）。
type SessionStorage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key string, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// SessionStore はセッションIDごとにストレージを切り出す。
type SessionStore interface {
	Scope(sessionID string) SessionStorage
	// Drop はセッション終了時に全キーを消す。
	Drop(ctx context.Context, sessionID string) error
}
