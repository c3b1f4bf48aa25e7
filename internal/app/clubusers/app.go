package clubusers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/club-users/internal/cache"
	"github.com/magabrotheeeer/club-users/internal/config"
	"github.com/magabrotheeeer/club-users/internal/lib/sl"
	userservice "github.com/magabrotheeeer/club-users/internal/services/users"
	mongostore "github.com/magabrotheeeer/club-users/internal/storage/mongo"
)

type listCache interface {
	userservice.Cache
	Close() error
}

type storeCloser interface {
	Close(ctx context.Context) error
}

// App HTTP-сервер вместе с долгоживущими соединениями к MongoDB и Redis.
type App struct {
	server          *http.Server
	logger          *slog.Logger
	db              storeCloser
	cache           listCache
	shutdownTimeout time.Duration
}

// New открывает соединения с хранилищами и собирает маршрутизатор.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.clubusers.New"

	db, err := mongostore.New(ctx, cfg.Mongo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var lc listCache = cache.Nop{}
	if cfg.RedisEnabled() {
		redisCache, err := cache.InitServer(ctx, cfg.Redis)
		if err != nil {
			_ = db.Close(context.Background())
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		lc = redisCache
	} else {
		logger.Info("redis address is not set, list cache disabled")
	}

	service, err := userservice.NewService(db, lc, logger,
		userservice.WithCacheTTL(cfg.TTL),
		userservice.WithRetry(userservice.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			Delay:      cfg.Delay,
			Retryable:  mongostore.IsTransient,
		}),
	)
	if err != nil {
		_ = lc.Close()
		_ = db.Close(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, service, reg, cfg.RateLimit)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:          srv,
		logger:          logger,
		db:              db,
		cache:           lc,
		shutdownTimeout: cfg.ShutdownTimeout,
	}, nil
}

// Run обслуживает запросы до отмены ctx, затем останавливает сервер и закрывает соединения.
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

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}

	a.close()
	return err
}

func (a *App) close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(context.Background()); err != nil {
		a.logger.Error("failed to close mongo client", sl.Err(err))
	}
}
