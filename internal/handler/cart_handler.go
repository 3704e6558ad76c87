package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"storefront/internal/domain/model"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
)

// /cart のHTTP
type CartHandler struct {
	sessions Sessions
}

// DI
func NewCartHandler(sessions Sessions) *CartHandler {
	return &CartHandler{sessions: sessions}
}

// size は null/省略でサイズなし
type CartLineRequest struct {
	ProductID string  `json:"product_id"`
	Size      *string `json:"size"`
}

type AddCartRequest struct {
	CartLineRequest
}

// quantity は入力欄の値そのまま（文字列でも数値でもよい）
type SetQuantityRequest struct {
	CartLineRequest
	Quantity any `json:"quantity"`
}

type ChangeQuantityRequest struct {
	CartLineRequest
	Delta int `json:"delta"`
}

func (r CartLineRequest) size() model.Size {
	return model.SizeFromPtr(r.Size)
}

// validate は商品IDを正規化する
func (r *CartLineRequest) validate() error {
	id, err := validator.ProductID(r.ProductID)
	if err != nil {
		return err
	}
	if err := validator.Size(r.Size); err != nil {
		return err
	}
	r.ProductID = id
	return nil
}

// /cart/items を登録
func (h *CartHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/cart", h.getCart)
	g.POST("/cart/items", h.add)
	g.PATCH("/cart/items", h.setQuantity)
	g.POST("/cart/items/change", h.changeQuantity)
	g.DELETE("/cart/items", h.remove)
}

func (h *CartHandler) getCart(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v.Snapshot().Cart)
}

func (h *CartHandler) add(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil || req.validate() != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := v.AddToCart(c.Request().Context(), req.ProductID, req.size()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v.Snapshot().Cart)
}

func (h *CartHandler) setQuantity(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}

	var req SetQuantityRequest
	if err := c.Bind(&req); err != nil || req.validate() != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	value := quantityText(req.Quantity)

	if err := v.SetQuantity(c.Request().Context(), req.ProductID, req.size(), value); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v.Snapshot().Cart)
}

func (h *CartHandler) changeQuantity(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}

	var req ChangeQuantityRequest
	if err := c.Bind(&req); err != nil || req.validate() != nil || validator.Delta(req.Delta) != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := v.ChangeQuantity(c.Request().Context(), req.ProductID, req.size(), req.Delta); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v.Snapshot().Cart)
}

func (h *CartHandler) remove(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}

	//DELETEはクエリで受ける（size が無ければサイズなし）
	req := CartLineRequest{ProductID: c.QueryParam("product_id")}
	if c.QueryParams().Has("size") {
		size := c.QueryParam("size")
		req.Size = &size
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}

	if err := v.RemoveFromCart(c.Request().Context(), req.ProductID, req.size()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v.Snapshot().Cart)
}

// quantityText は数値でも文字列でも入力欄の文字列として扱う。
// nullや空は正の整数ではないので削除になる。
func quantityText(q any) string {
	switch v := q.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		//1e+06 のような指数表記にしない
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
