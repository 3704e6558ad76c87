package usecase

import (
	"errors"
	"fmt"
	"net/http"

	repo "storefront/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// AsHTTPError はusecaseのエラーをHTTPのステータスに寄せる。
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return &HTTPError{Status: http.StatusUnprocessableEntity, Message: ve.Message}, true
	}

	switch {
	case errors.Is(err, ErrProductNotFound), errors.Is(err, repo.ErrNotFound):
		return &HTTPError{Status: http.StatusNotFound, Message: "not found"}, true
	case errors.Is(err, ErrOutOfStock):
		return &HTTPError{Status: http.StatusConflict, Message: "out of stock"}, true
	case errors.Is(err, ErrCartEmpty):
		return &HTTPError{Status: http.StatusConflict, Message: "cart is empty"}, true
	case errors.Is(err, ErrNoOrder):
		return &HTTPError{Status: http.StatusConflict, Message: "no order to confirm"}, true
	case errors.Is(err, ErrNoProductSelected):
		return &HTTPError{Status: http.StatusConflict, Message: "no product selected"}, true
	case errors.Is(err, ErrCatalogUnavailable):
		return &HTTPError{Status: http.StatusServiceUnavailable, Message: "catalog unavailable"}, true
	}
	return nil, false
}

var (
	// 商品がカタログに無い
	ErrProductNotFound = errors.New("product not found")

	// 在庫切れの商品は追加できない
	ErrOutOfStock = errors.New("product is out of stock")

	// 空のカートでは注文できない
	ErrCartEmpty = errors.New("cart is empty")

	// 確認する注文がない
	ErrNoOrder = errors.New("no pending order")

	// 商品モーダルが開いていない
	ErrNoProductSelected = errors.New("no product selected")

	// カートは変わったがストレージへの保存に失敗した
	ErrCartNotSaved = errors.New("cart not saved")

	// カタログの読み込みに失敗した
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// ValidationError はユーザーに見せるプロンプト付きの入力エラー。状態は変えない。
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}
