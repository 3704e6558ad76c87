package handler

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// Sessions はセッションIDから ViewUsecase を引く（session.Registry）。
type Sessions interface {
	Get(ctx context.Context, sessionID string) (*usecase.ViewUsecase, error)
}

// sessionView はミドルウェアが入れたセッションIDから画面状態を取る。
func sessionView(c echo.Context, sessions Sessions) (*usecase.ViewUsecase, error) {
	sid, ok := middleware.SessionID(c)
	if !ok {
		return nil, usecase.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	return sessions.Get(c.Request().Context(), sid)
}

// /catalog の公開API
type CatalogHandler struct {
	catalog repo.CatalogRepository
}

// DI
func NewCatalogHandler(catalog repo.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type CatalogResponse struct {
	Status   repo.CatalogStatus `json:"status"`
	Error    string             `json:"error,omitempty"`
	Products []model.Product    `json:"products"`
}

func (h *CatalogHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/catalog", h.list)
	e.GET("/catalog/:id", h.detail)
}

func (h *CatalogHandler) list(c echo.Context) error {
	out := CatalogResponse{
		Status:   h.catalog.Status(),
		Products: h.catalog.List(),
	}
	if err := h.catalog.Err(); err != nil {
		out.Error = err.Error()
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) detail(c echo.Context) error {
	if h.catalog.Status() == repo.CatalogFailed {
		return writeError(c, usecase.ErrCatalogUnavailable)
	}
	p, err := h.catalog.FindByID(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
