package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Freeeeeet/kite_planner/internal/model"
	"github.com/Freeeeeet/kite_planner/internal/schedule"
	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken   string                `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN           string                `mapstructure:"DB_DSN"`
	Environment     string                `mapstructure:"ENV"`
	MigrationsPath  string                `mapstructure:"MIGRATIONS_PATH"`
	DefaultLocation model.Location        `mapstructure:"DEFAULT_LOCATION"`
	DefaultStart    int                   `mapstructure:"DEFAULT_START"`
	Caps            schedule.DurationCaps `mapstructure:"-"`
	SweepInterval   time.Duration         `mapstructure:"SWEEP_INTERVAL"`
	MetricsAddr     string                `mapstructure:"METRICS_ADDR"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфиг из переменных окружения, getenv подменяется в тестах
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		TelegramToken:  getenv("TELEGRAM_TOKEN"),
		DBDSN:          getenv("DB_DSN"),
		Environment:    getenv("ENV"),
		MigrationsPath: getenv("MIGRATIONS_PATH"),
		MetricsAddr:    getenv("METRICS_ADDR"),
		Caps:           schedule.DefaultCaps(),
		DefaultStart:   10 * 60,
		SweepInterval:  time.Hour,
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = ":9090"
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	cfg.DefaultLocation = model.LocationLosLances
	if v := getenv("DEFAULT_LOCATION"); v != "" {
		loc, err := model.ParseLocation(v)
		if err != nil {
			return nil, fmt.Errorf("DEFAULT_LOCATION: %w", err)
		}
		cfg.DefaultLocation = loc
	}

	if v := getenv("DEFAULT_START"); v != "" {
		start, err := schedule.ParseClock(v)
		if err != nil || !schedule.InWindow(start, schedule.MinDuration) {
			return nil, fmt.Errorf("DEFAULT_START: invalid time %q", v)
		}
		cfg.DefaultStart = start
	}

	caps := []struct {
		key string
		dst *int
	}{
		{"CAP_PRIVATE", &cfg.Caps.Private},
		{"CAP_SEMI_PRIVATE", &cfg.Caps.SemiPrivate},
		{"CAP_GROUP", &cfg.Caps.Group},
	}
	for _, c := range caps {
		v := getenv(c.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.key, err)
		}
		*c.dst = n
	}
	if err := cfg.Caps.Validate(); err != nil {
		return nil, fmt.Errorf("duration caps: %w", err)
	}

	if v := getenv("SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SWEEP_INTERVAL: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("SWEEP_INTERVAL must be positive, got %s", d)
		}
		cfg.SweepInterval = d
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}
