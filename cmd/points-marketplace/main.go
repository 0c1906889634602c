// Package main Points Marketplace API
//
// @title           Points Marketplace API
// @version         1.0
// @description     API маркетплейса видеоуслуг: пакеты очков, формулы ценообразования и заказы
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session
// @description Сессионная HTTP-only cookie, выдаётся при входе.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	pointsmarketplace "github.com/magabrotheeeer/points-marketplace/internal/app/points-marketplace"
	"github.com/magabrotheeeer/points-marketplace/internal/config"

	_ "github.com/magabrotheeeer/points-marketplace/docs"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting points-marketplace", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := pointsmarketplace.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("points-marketplace stopped gracefully")
}
