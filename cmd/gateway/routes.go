package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"delivery-system/config"
	"delivery-system/internal/admin"
	"delivery-system/internal/auth"
	"delivery-system/internal/cache"
	"delivery-system/internal/catalog"
	"delivery-system/internal/checkout"
	"delivery-system/internal/database"
	"delivery-system/internal/gateway"
	"delivery-system/internal/order"
	"delivery-system/internal/pricing"
	"delivery-system/internal/seed"
	"delivery-system/internal/session"
	"delivery-system/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	loc, err := time.LoadLocation(cfg.Gateway.Timezone)
	if err != nil {
		logger.Fatal("load timezone", zap.Error(err))
	}
	now := func() time.Time { return time.Now().In(loc) }

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat := catalog.New()
	coupons := pricing.NewCouponBook(now)
	directory := auth.NewDirectory(cfg.Auth.BcryptCost)
	if err := seed.Load(seed.Stores{Catalog: cat, Coupons: coupons, Directory: directory}); err != nil {
		logger.Fatal("load seed data", zap.Error(err))
	}

	var (
		repo order.Repository = order.NewMemoryRepository()
		db   *gorm.DB
	)
	if cfg.DB.Driver == "postgres" {
		db, err = database.NewConnection(cfg.DB.DSN())
		if err != nil {
			logger.Fatal("connect to database", zap.Error(err))
		}
		if err := database.MigrateOrderDB(db); err != nil {
			logger.Fatal("migrate database", zap.Error(err))
		}
		repo = database.NewOrderRepository(db)
	}

	var (
		publisher order.Publisher = order.NopPublisher{}
		rdb       *redis.Client
	)
	sessionOpts := []session.Option{session.WithLogger(logger), session.WithClock(now)}
	if cfg.Redis.Enabled {
		rdb, err = config.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		publisher = cache.NewEventPublisher(rdb)
		sessionOpts = append(sessionOpts, session.WithCartStore(cache.NewCartStore(rdb, cfg.Redis.CartTTL), cat.Product))
	}

	orders := order.NewLifecycle(repo, publisher, logger, now)
	sessions := session.NewRegistry(directory, sessionOpts...)

	gin.SetMode(gin.ReleaseMode)
	router, err := gateway.NewRouter(gateway.Dependencies{
		Catalog:   cat,
		Coupons:   coupons,
		Directory: directory,
		Sessions:  sessions,
		Orders:    orders,
		Checkout:  checkout.NewService(cat, coupons, orders, logger, now),
		Admin:     admin.NewService(cat, directory, orders, logger),
		Tokens:    utils.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Logger:    logger,
		Now:       now,
		RateLimit: cfg.Gateway.RateLimit,
		Health:    healthCheck(db, rdb),
	})
	if err != nil {
		logger.Fatal("build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Gateway.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("db_driver", cfg.DB.Driver),
			zap.Bool("redis", cfg.Redis.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// healthCheck pings the optional backing stores.
func healthCheck(db *gorm.DB, rdb *redis.Client) func() map[string]string {
	return func() map[string]string {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		services := map[string]string{}
		if db != nil {
			services["postgres"] = "healthy"
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
				services["postgres"] = "unavailable"
			}
		}
		if rdb != nil {
			services["redis"] = "healthy"
			if err := rdb.Ping(ctx).Err(); err != nil {
				services["redis"] = "unavailable"
			}
		}
		return services
	}
}
