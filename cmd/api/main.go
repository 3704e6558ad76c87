package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/infra/catalog"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/session"
	"storefront/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	//.env は任意
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProd() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	//メトリクス
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.New(reg)

	//カタログ（起動時に一度だけ読む）
	source, err := catalog.NewSource(ctx, cfg.CatalogLocation, catalog.SourceOptions{
		AWSRegion:  cfg.AWSRegion,
		S3Endpoint: cfg.S3Endpoint,
	})
	if err != nil {
		return err
	}
	store := catalog.NewStore(source)
	go func() {
		err := store.Load(ctx)
		rec.CatalogLoaded(err)
		if err != nil {
			logger.Error("catalog load failed", zap.String("location", cfg.CatalogLocation), zap.Error(err))
			return
		}
		logger.Info("catalog loaded", zap.Int("products", len(store.List())))
	}()

	//セッションストレージ
	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		return err
	}

	factory := func(ctx context.Context, storage repo.SessionStorage) (*usecase.ViewUsecase, error) {
		return usecase.NewViewUsecase(ctx, store, storage, usecase.ViewConfig{
			FrameDelay:  cfg.FrameDelay,
			CloseDelay:  cfg.CloseDelay,
			CheckoutURL: cfg.CheckoutURL,
			Logger:      logger,
			Metrics:     rec,
		})
	}
	sessions := session.NewRegistry(cfg.MaxSessions, cfg.SessionTTL, sessionStore, factory, rec, logger)

	//Handler生成
	e := server.New(server.Deps{
		Config:   cfg,
		Logger:   logger,
		Gatherer: reg,
		Catalog:  handler.NewCatalogHandler(store),
		Cart:     handler.NewCartHandler(sessions),
		View:     handler.NewViewHandler(sessions),
		Checkout: handler.NewCheckoutHandler(sessions),
	})

	return server.Start(ctx, e, cfg.Addr(), logger)
}

func newSessionStore(cfg config.Config) (repo.SessionStore, error) {
	if cfg.SessionStore != config.SessionStorePostgres {
		return infraRepo.NewSessionMemoryRepository(), nil
	}

	//DB接続
	gormDB, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := gormDB.AutoMigrate(&model.SessionEntry{}); err != nil {
		return nil, err
	}
	return infraRepo.NewSessionGormRepository(gormDB), nil
}
