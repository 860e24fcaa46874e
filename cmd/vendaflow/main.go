package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/vendaflow/vendaflow/internal/app"
	"github.com/vendaflow/vendaflow/internal/auth"
	"github.com/vendaflow/vendaflow/internal/masterdata/categories"
	"github.com/vendaflow/vendaflow/internal/masterdata/companies"
	"github.com/vendaflow/vendaflow/internal/masterdata/customers"
	"github.com/vendaflow/vendaflow/internal/masterdata/products"
	"github.com/vendaflow/vendaflow/internal/masterdata/stores"
	"github.com/vendaflow/vendaflow/internal/platform/cache"
	"github.com/vendaflow/vendaflow/internal/platform/db"
	"github.com/vendaflow/vendaflow/internal/sales"
	"github.com/vendaflow/vendaflow/internal/shared"
	"github.com/vendaflow/vendaflow/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	var redisClient *redis.Client
	if cfg.SessionCache {
		redisClient, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, session cache disabled", slog.Any("error", err))
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
		}
	}

	audit := shared.NewAuditLogger(pool)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)

	companyRepo := companies.NewRepository(pool)
	companySvc := companies.NewService(companyRepo)

	storeRepo := stores.NewRepository(pool)
	storeSvc := stores.NewService(storeRepo)

	productRepo := products.NewRepository(pool)
	productSvc := products.NewService(productRepo)

	categorySvc := categories.NewService(categories.NewRepository(pool))
	customerSvc := customers.NewService(customers.NewRepository(pool))

	userRepo := users.NewRepository(pool)
	userSvc := users.NewService(userRepo, logger)

	sessionRepo := auth.NewSessionRepository(pool, redisClient, logger)
	authSvc := auth.NewService(companySvc, userSvc, userRepo, sessionRepo, issuer, cfg.RefreshTokenTTL, audit, logger)

	saleRepo := sales.NewRepository(pool)
	saleSvc := sales.NewService(saleRepo, storeRepo, productRepo, audit, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		TokenIssuer:       issuer,
		AuthHandler:       auth.NewHandler(logger, authSvc),
		CompaniesHandler:  companies.NewHandler(logger, companySvc),
		StoresHandler:     stores.NewHandler(logger, storeSvc),
		ProductsHandler:   products.NewHandler(logger, productSvc),
		CategoriesHandler: categories.NewHandler(logger, categorySvc),
		CustomersHandler:  customers.NewHandler(logger, customerSvc),
		UsersHandler:      users.NewHandler(logger, userSvc),
		SalesHandler:      sales.NewHandler(logger, saleSvc),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
