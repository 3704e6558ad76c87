package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Deps はルーティングに必要な部品
type Deps struct {
	Config   config.Config
	Logger   *zap.Logger
	Gatherer prometheus.Gatherer

	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	View     *handler.ViewHandler
	Checkout *handler.CheckoutHandler
}

// New はミドルウェアとルートを載せた echo を返す。
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(d.Logger))

	RegisterRoutes(e, d)
	return e
}

// Start はctxが終わるまで待ち受け、終わったらグレースフルに止める。
func Start(ctx context.Context, e *echo.Echo, addr string, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
