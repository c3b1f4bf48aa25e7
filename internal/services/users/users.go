// Package users содержит бизнес-логику регистрации, входа и получения списка участников клуба.
package users

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	_ "time/tzdata" // America/New_York должен быть доступен и в минимальных образах

	"github.com/sethvargo/go-retry"

	"github.com/magabrotheeeer/club-users/internal/lib/sl"
	"github.com/magabrotheeeer/club-users/internal/models"
)

const (
	// ListCacheKey ключ кеша со списком участников.
	ListCacheKey = "club_users"
	// ListVersionKey счётчик записей; закешированный список валиден только для текущего значения.
	ListVersionKey = "club_users:version"
	// SigninTimeZone часовой пояс отметки последнего входа.
	SigninTimeZone = "America/New_York"
)

// Repository описывает контракт хранилища участников.
type Repository interface {
	// CreateUser сохраняет пользователя и возвращает его идентификатор.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// TouchLastSignin проставляет last_signin всем документам с данным email.
	TouchLastSignin(ctx context.Context, email, timestamp string) (int64, error)
	// ListUsers возвращает всех пользователей, отсортированных по last_signin по убыванию.
	ListUsers(ctx context.Context) ([]models.User, error)
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
}

// Cache описывает методы для кеширования списка.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// listEntry закешированный список вместе с версией, прочитанной до запроса к хранилищу.
type listEntry struct {
	Version int64         `json:"version"`
	Users   []models.User `json:"users"`
}

// RetryPolicy параметры повторов для идемпотентных операций.
type RetryPolicy struct {
	MaxRetries uint64
	Delay      time.Duration
	// Retryable решает, стоит ли повторять операцию после ошибки.
	Retryable func(error) bool
}

// Service реализует сценарии signup, signin и list.
type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
	retry    RetryPolicy
	location *time.Location
	now      func() time.Time
	log      *slog.Logger
}

// Option настраивает Service.
type Option func(*Service)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRetry задаёт политику повторов.
func WithRetry(p RetryPolicy) Option {
	return func(s *Service) { s.retry = p }
}

// WithCacheTTL задаёт время жизни закешированного списка.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) { s.cacheTTL = ttl }
}

// NewService создаёт сервис. Ошибка возвращается, если не удалось загрузить часовой пояс.
func NewService(repo Repository, cache Cache, log *slog.Logger, opts ...Option) (*Service, error) {
	const op = "services.users.NewService"

	loc, err := time.LoadLocation(SigninTimeZone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: 30 * time.Second,
		location: loc,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Signup регистрирует нового участника. Дата регистрации хранится в UTC.
// Вставка не повторяется.
func (s *Service) Signup(ctx context.Context, email string) (string, error) {
	const op = "services.users.Signup"

	id, err := s.repo.CreateUser(ctx, models.User{
		Email:      email,
		SignupDate: s.now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx, op)
	return id, nil
}

// Signin отмечает вход участника временем в часовом поясе America/New_York.
func (s *Service) Signin(ctx context.Context, email string) error {
	const op = "services.users.Signin"

	timestamp := s.now().In(s.location).Format(models.LastSigninLayout)

	err := s.do(ctx, func(ctx context.Context) error {
		_, err := s.repo.TouchLastSignin(ctx, email, timestamp)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(ctx, op)
	return nil
}

// List возвращает всех участников, сначала пытаясь прочитать список из кеша.
// Версия читается до запроса к хранилищу: запись, завершившаяся во время запроса,
// увеличивает версию, и закешированный список перестаёт приниматься.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	const op = "services.users.List"

	version, cacheOK := s.listVersion(ctx, op)
	if cacheOK {
		var cached listEntry
		found, err := s.cache.Get(ctx, ListCacheKey, &cached)
		if err != nil {
			s.log.Warn("cache read failed", slog.String("op", op), sl.Err(err))
		}
		if found && cached.Version == version {
			return cached.Users, nil
		}
	}

	var users []models.User
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		users, err = s.repo.ListUsers(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cacheOK {
		entry := listEntry{Version: version, Users: users}
		if err := s.cache.Set(ctx, ListCacheKey, entry, s.cacheTTL); err != nil {
			s.log.Warn("cache write failed", slog.String("op", op), sl.Err(err))
		}
	}
	return users, nil
}

// listVersion возвращает текущую версию списка. false означает, что кеш использовать нельзя.
func (s *Service) listVersion(ctx context.Context, op string) (int64, bool) {
	var version int64
	if _, err := s.cache.Get(ctx, ListVersionKey, &version); err != nil {
		s.log.Warn("cache version read failed", slog.String("op", op), sl.Err(err))
		return 0, false
	}
	return version, true
}

// Ready проверяет доступность хранилища.
func (s *Service) Ready(ctx context.Context) error {
	const op = "services.users.Ready"

	if err := s.do(ctx, s.repo.Ping); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, op string) {
	if _, err := s.cache.Incr(ctx, ListVersionKey); err != nil {
		s.log.Warn("cache version bump failed", slog.String("op", op), sl.Err(err))
	}
	if err := s.cache.Invalidate(ctx, ListCacheKey); err != nil {
		s.log.Warn("cache invalidation failed", slog.String("op", op), sl.Err(err))
	}
}

// do выполняет f, повторяя её с экспоненциальной задержкой при временных ошибках.
func (s *Service) do(ctx context.Context, f retry.RetryFunc) error {
	if s.retry.MaxRetries == 0 || s.retry.Delay <= 0 || s.retry.Retryable == nil {
		return f(ctx)
	}

	backoff := retry.WithMaxRetries(s.retry.MaxRetries, retry.NewExponential(s.retry.Delay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := f(ctx)
		if err != nil && s.retry.Retryable(err) {
			s.log.Debug("retrying store call", sl.Err(err))
			return retry.RetryableError(err)
		}
		return err
	})
}
