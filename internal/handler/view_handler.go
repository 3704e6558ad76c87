package handler

import (
	"errors"
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/render"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
)

// 画面状態（絞り込み・モーダル・ディープリンク）のHTTP
type ViewHandler struct {
	sessions Sessions
}

// DI
func NewViewHandler(sessions Sessions) *ViewHandler {
	return &ViewHandler{sessions: sessions}
}

// null/省略で「すべて」
type FilterRequest struct {
	Value *string `json:"value"`
}

type SizeRequest struct {
	Size *string `json:"size"`
}

type DeepLinkRequest struct {
	Fragment string `json:"fragment"`
}

func (h *ViewHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/view", h.view)
	g.GET("/view/sections", h.sectionsHTML)
	g.GET("/view/cart", h.cartHTML)

	g.POST("/filters/type", h.setType)
	g.POST("/filters/subtype", h.setSubtype)
	g.POST("/filters/reset", h.resetFilter)

	g.POST("/modals/product/:id/open", h.openProduct)
	g.POST("/modals/product/close", h.closeProduct)
	g.POST("/modals/product/size", h.selectSize)
	g.POST("/modals/product/add", h.addCurrent)

	g.POST("/modals/cart/open", h.openCart)
	g.POST("/modals/cart/close", h.closeCart)
	g.POST("/overlay/tap", h.tapDimmer)

	g.POST("/deeplink", h.deepLink)
}

// snapshot は操作後の状態を返す。ValidationError は状態（prompt）と一緒に 422 で返す。
func snapshot(c echo.Context, v *usecase.ViewUsecase, err error) error {
	if err != nil {
		var ve *usecase.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusUnprocessableEntity, v.Snapshot())
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v.Snapshot())
}

func (h *ViewHandler) view(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v.Snapshot())
}

func (h *ViewHandler) sectionsHTML(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}
	html, err := render.Sections(v.Snapshot().Sections)
	if err != nil {
		return writeError(c, err)
	}
	return c.HTML(http.StatusOK, html)
}

func (h *ViewHandler) cartHTML(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}
	html, err := render.Cart(v.Snapshot().Cart)
	if err != nil {
		return writeError(c, err)
	}
	return c.HTML(http.StatusOK, html)
}

func (h *ViewHandler) setType(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}
	var req FilterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	return snapshot(c, v, v.SetTypeFilter(req.Value))
}

func (h *ViewHandler) setSubtype(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}
	var req FilterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	return snapshot(c, v, v.SetSubtypeFilter(req.Value))
}

func (h *ViewHandler) resetFilter(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}
	v.ResetFilter()
	return snapshot(c, v, nil)
}

func (h *ViewHandler) openProduct(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}
	return snapshot(c, v, v.OpenProduct(c.Param("id")))
}

func (h *ViewHandler) closeProduct(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}
	v.CloseProduct()
	return snapshot(c, v, nil)
}

func (h *ViewHandler) selectSize(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}
	var req SizeRequest
	if err := c.Bind(&req); err != nil || validator.Size(req.Size) != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	return snapshot(c, v, v.SelectSize(model.SizeFromPtr(req.Size)))
}

func (h *ViewHandler) addCurrent(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}
	return snapshot(c, v, v.AddCurrentToCart(c.Request().Context()))
}

func (h *ViewHandler) openCart(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}
	v.OpenCart()
	return snapshot(c, v, nil)
}

func (h *ViewHandler) closeCart(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}
	v.CloseCart()
	return snapshot(c, v, nil)
}

func (h *ViewHandler) tapDimmer(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}
	v.TapDimmer()
	return snapshot(c, v, nil)
}

// deepLink はページ読み込み時の #id。カタログ読み込み中ならリクエストの間だけ待つ。
func (h *ViewHandler) deepLink(c echo.Context) error {
	v, err := sessionView(c, h.sessions)
	if err != nil {
		return writeError(c, err)
	}
	var req DeepLinkRequest
	if err := c.Bind(&req); err != nil || validator.Fragment(req.Fragment) != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	return snapshot(c, v, v.RestoreDeepLink(c.Request().Context(), req.Fragment))
}
