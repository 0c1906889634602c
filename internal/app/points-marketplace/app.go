// Package pointsmarketplace собирает и запускает основной HTTP-сервис маркетплейса.
package pointsmarketplace

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/points-marketplace/internal/cache"
	"github.com/magabrotheeeer/points-marketplace/internal/config"
	"github.com/magabrotheeeer/points-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/points-marketplace/internal/migrations"
	authservice "github.com/magabrotheeeer/points-marketplace/internal/services/auth"
	balanceservice "github.com/magabrotheeeer/points-marketplace/internal/services/balance"
	formulaservice "github.com/magabrotheeeer/points-marketplace/internal/services/formula"
	orderservice "github.com/magabrotheeeer/points-marketplace/internal/services/order"
	packageservice "github.com/magabrotheeeer/points-marketplace/internal/services/pointpackage"
	"github.com/magabrotheeeer/points-marketplace/internal/storage/repository"
)

// App связывает HTTP-сервер, хранилище и кеш основного сервиса.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New собирает приложение: подключает хранилище, применяет миграции,
// поднимает кеш и регистрирует все маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.SessionToken.SecretKey, cfg.SessionToken.TokenTTL)

	authService := authservice.New(db, jwtMaker)
	balanceService := balanceservice.New(db, logger)
	formulaService := formulaservice.New(db, cacheRedis, logger)
	orderService := orderservice.New(formulaService, db, logger)
	packageService := packageservice.New(db, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, cfg, db,
		authService, balanceService, formulaService, orderService, packageService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
