// Package config предоставляет структуры и функции для загрузки конфигурации
// сервиса из YAML-файла и переменных окружения.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	Mongo      `yaml:"mongo"`
	Redis      `yaml:"redis"`
	HTTPServer `yaml:"http_server"`
	Retry      `yaml:"retry"`
	RateLimit  `yaml:"rate_limit"`
}

// Mongo настройки подключения к MongoDB. URI обязателен.
type Mongo struct {
	URI            string        `yaml:"uri" env:"MONGO_URI" env-required:"true"`
	Database       string        `yaml:"database" env:"MONGO_DATABASE" env-default:"HealthLocker"`
	Collection     string        `yaml:"collection" env:"MONGO_COLLECTION" env-default:"users"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`
}

// Redis настройки кеша списка пользователей. Пустой адрес отключает кеш.
type Redis struct {
	AddressRedis string        `yaml:"address" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT" env-default:"3s"`
	TTL          time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"30s"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"0.0.0.0:80"`
	TimeoutHTTP     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

// Retry политика повторов для идемпотентных обращений к хранилищу.
type Retry struct {
	MaxRetries uint64        `yaml:"max_retries" env:"RETRY_MAX" env-default:"3"`
	Delay      time.Duration `yaml:"delay" env:"RETRY_DELAY" env-default:"1s"`
}

// RateLimit ограничение частоты запросов. RPS <= 0 отключает лимитер.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"0"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"10"`
}

// Load читает .env (если есть), затем YAML-файл из CONFIG_PATH либо только окружение.
func Load() (*Config, error) {
	const op = "config.Load"

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var cfg Config
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad как Load, но завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// RedisEnabled сообщает, настроен ли кеш.
func (c *Config) RedisEnabled() bool {
	return c.AddressRedis != ""
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Mongo:\n"+
			"  Database: %s\n"+
			"  Collection: %s\n"+
			"  ConnectTimeout: %s\n"+
			"Redis:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  TTL: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Retry:\n"+
			"  MaxRetries: %d\n"+
			"  Delay: %s\n",
		c.Env,
		c.Database,
		c.Collection,
		c.ConnectTimeout,
		c.AddressRedis,
		c.DB,
		c.TTL,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.MaxRetries,
		c.Delay,
	)
}
