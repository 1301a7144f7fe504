// Package app composes the application: it picks the live Store from configuration and
// wires services, controllers and routes on top of it.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/dualstore-shop/config"
	"github.com/ikkim/dualstore-shop/internal/app/controller"
	"github.com/ikkim/dualstore-shop/internal/app/repository"
	"github.com/ikkim/dualstore-shop/internal/app/repository/document"
	"github.com/ikkim/dualstore-shop/internal/app/repository/relational"
	"github.com/ikkim/dualstore-shop/internal/app/service"
	"github.com/ikkim/dualstore-shop/internal/db"
	"github.com/ikkim/dualstore-shop/internal/router"
	"github.com/ikkim/dualstore-shop/internal/scheduler"
	"github.com/ikkim/dualstore-shop/internal/storage"
	"github.com/ikkim/dualstore-shop/pkg/logger"
	"github.com/ikkim/dualstore-shop/pkg/redis"
	"go.mongodb.org/mongo-driver/mongo"
)

const sequenceKeyPrefix = "shop:seq"

// NewEngine builds the HTTP engine over store.
func NewEngine(cfg *config.Config, store repository.Store, opts ...service.Option) *gin.Engine {
	catalogService := service.NewCatalogService(store)
	cartService := service.NewCartService(store)
	orderService := service.NewOrderService(store, opts...)
	reportService := service.NewReportService(store, opts...)
	statusService := service.NewStatusService(store)

	r := router.NewRouter(
		controller.NewCatalogController(catalogService),
		controller.NewCartController(cartService),
		controller.NewOrderController(orderService),
		controller.NewReportController(reportService, cfg.Report.SpendThreshold),
		controller.NewStatusController(statusService),
		cfg,
	)
	return r.Setup()
}

// OpenStore connects the backend named by cfg.Store.Mode. The returned func releases
// the connections it opened.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	mode, err := repository.ParseMode(cfg.Store.Mode)
	if err != nil {
		return nil, nil, err
	}
	policy, err := repository.ParseStockPolicy(cfg.Store.StockPolicy)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Opening store", map[string]interface{}{
		"mode":         mode,
		"stock_policy": policy,
	})

	switch mode {
	case repository.ModeSQL:
		if err := db.Initialize(&cfg.Database); err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(db.GetDB()); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		closer := func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database connection", err)
			}
		}
		return relational.NewStore(db.GetDB(), policy), closer, nil

	case repository.ModeNoSQL:
		if err := db.InitializeMongo(ctx, &cfg.Mongo); err != nil {
			return nil, nil, err
		}
		seq, closeSeq, err := OpenSequence(cfg, db.GetMongoDB())
		if err != nil {
			_ = db.CloseMongo(context.Background())
			return nil, nil, err
		}
		closer := func() {
			closeSeq()
			if err := db.CloseMongo(context.Background()); err != nil {
				logger.Error("Failed to close document store connection", err)
			}
		}
		return document.NewStore(db.GetMongoDB(), seq, policy), closer, nil
	}

	return repository.NewUninitializedStore(), func() {}, nil
}

// OpenSequence returns the id sequence named by cfg.Store.SequenceBackend.
func OpenSequence(cfg *config.Config, database *mongo.Database) (repository.Sequence, func(), error) {
	switch cfg.Store.SequenceBackend {
	case "redis":
		if err := redis.Init(&cfg.Redis); err != nil {
			return nil, nil, err
		}
		closer := func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}
		return redis.NewSequence(redis.GetClient(), sequenceKeyPrefix), closer, nil
	case "mongo", "":
		return document.NewCounterSequence(database), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown sequence backend %q", cfg.Store.SequenceBackend)
}

// OpenReportSink returns the S3 sink when a bucket is configured and a local directory sink
// otherwise.
func OpenReportSink(ctx context.Context, cfg *config.Config) (storage.ReportSink, error) {
	if cfg.Export.S3.Bucket != "" {
		return storage.NewS3Sink(ctx, &cfg.Export.S3)
	}
	return storage.NewDirSink(cfg.Export.Dir), nil
}

// StartReportExports schedules the report export when cfg.Export.Cron is set. The returned
// func stops the schedule; it is a no-op when nothing was scheduled.
func StartReportExports(ctx context.Context, cfg *config.Config, store repository.Store, opts ...service.Option) (func(), error) {
	if cfg.Export.Cron == "" {
		return func() {}, nil
	}
	sink, err := OpenReportSink(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := scheduler.NewReportScheduler(service.NewReportService(store, opts...), sink, cfg.Report.SpendThreshold)
	if err := s.Start(cfg.Export.Cron); err != nil {
		return nil, err
	}
	return s.Stop, nil
}
