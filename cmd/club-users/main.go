// Package main Club Users API
//
// @title           Club Users API
// @version         1.0
// @description     Регистрация и вход участников клуба по email.
// @BasePath  /
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/club-users/internal/app/clubusers"
	"github.com/magabrotheeeer/club-users/internal/config"
	"github.com/magabrotheeeer/club-users/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.Setup(cfg.Env)

	logger.Info("starting club-users", slog.String("env", cfg.Env))
	logger.Debug("config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := clubusers.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("club-users stopped gracefully")
}
