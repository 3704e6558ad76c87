package server

import (
	"net/http"

	"storefront/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if d.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	//カタログは共有なのでセッション不要
	d.Catalog.RegisterRoutes(e)

	//セッション単位の画面状態
	s := e.Group("", middleware.SessionToken(d.Config))
	d.View.RegisterRoutes(s)
	d.Cart.RegisterRoutes(s)
	d.Checkout.RegisterRoutes(s)
}
