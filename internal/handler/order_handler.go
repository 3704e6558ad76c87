package handler

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 注文確認〜ボットへの引き渡し
type CheckoutHandler struct {
	sessions Sessions
}

// DI
func NewCheckoutHandler(sessions Sessions) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions}
}

// popups_allowed はクライアントが新しいタブを開けるかどうか
type ConfirmRequest struct {
	PopupsAllowed bool `json:"popups_allowed"`
}

// CheckoutResponse は確認モーダルの中身
type CheckoutResponse struct {
	Order model.OrderDraft     `json:"order"`
	View  usecase.ViewSnapshot `json:"view"`
}

// HandoffDirective はクライアントが実行する指示（コピー → open / navigate）
type HandoffDirective struct {
	Clipboard string               `json:"clipboard"`
	Action    string               `json:"action"`
	URL       string               `json:"url"`
	View      usecase.ViewSnapshot `json:"view"`
}

const (
	ActionOpen     = "open"
	ActionNavigate = "navigate"
)

func (h *CheckoutHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/checkout", h.request)
	g.POST("/checkout/confirm", h.confirm)
	g.POST("/checkout/cancel", h.cancel)
}

func (h *CheckoutHandler) request(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}

	draft, err := v.RequestCheckout()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, CheckoutResponse{Order: draft, View: v.Snapshot()})
}

func (h *CheckoutHandler) confirm(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}

	var req ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	//クリップボードはブラウザ側。指示として返すのでサーバ側では書かない
	nav := &directiveNavigator{popupsAllowed: req.PopupsAllowed}
	res, err := v.ConfirmOrder(c.Request().Context(), nil, nav)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, HandoffDirective{
		Clipboard: res.Encoded,
		Action:    nav.action,
		URL:       res.URL,
		View:      v.Snapshot(),
	})
}

func (h *CheckoutHandler) cancel(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}
	v.CancelOrder()
	return c.JSON(http.StatusOK, v.Snapshot())
}

// directiveNavigator はクライアントの申告でポップアップ可否を決め、実行すべき動作を記録する。
type directiveNavigator struct {
	popupsAllowed bool
	action        string
}

func (n *directiveNavigator) Open(_ context.Context, _ string) bool {
	if !n.popupsAllowed {
		return false
	}
	n.action = ActionOpen
	return true
}

func (n *directiveNavigator) Navigate(_ context.Context, _ string) {
	n.action = ActionNavigate
}
