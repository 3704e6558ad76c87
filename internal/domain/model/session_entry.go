package model

import "time"

// SessionEntry はセッションストレージの1キー（DB保存用）
type SessionEntry struct {
	SessionID string    `gorm:"primaryKey;type:varchar(64)" json:"session_id"`
	Key       string    `gorm:"primaryKey;type:varchar(64)" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
