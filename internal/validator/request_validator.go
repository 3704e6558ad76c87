package validator

import (
	"errors"
	"strings"
	"unicode"

	"storefront/internal/domain/model"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")

	// 数量の増減が大きすぎる
	ErrInvalidDelta = errors.New("invalid delta")
)

const (
	maxIDLen       = 128
	maxFragmentLen = 256
	maxDelta       = model.MaxQuantity
)

// 商品IDを検証（前後の空白は落として返す）
func ProductID(id string) (string, error) {
	id = strings.TrimSpace(id)

	// 必須チェック
	if id == "" || len(id) > maxIDLen {
		return "", ErrInvalidInput
	}
	if hasControl(id) {
		return "", ErrInvalidInput
	}
	return id, nil
}

// サイズ（nil はサイズなし）
func Size(size *string) error {
	if size == nil {
		return nil
	}
	if len(*size) > maxIDLen || hasControl(*size) {
		return ErrInvalidInput
	}
	return nil
}

// +/- ボタンの増減
func Delta(delta int) error {
	if delta == 0 || delta > maxDelta || delta < -maxDelta {
		return ErrInvalidDelta
	}
	return nil
}

// ディープリンクのフラグメント（空は許可）
func Fragment(fragment string) error {
	if len(fragment) > maxFragmentLen || hasControl(fragment) {
		return ErrInvalidInput
	}
	return nil
}

func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}
