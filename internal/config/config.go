package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend выбирает реализацию хранилища.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendSupabase Backend = "supabase"
)

// DefaultNominations засеваются, если NOMINATIONS не задан
var DefaultNominations = []string{
	"Трек года",
	"Вокал года",
	"Клип года",
	"Прорыв года",
}

const defaultResultsNotice = "Итоги голосования будут объявлены в прямом эфире."

type Config struct {
	TelegramToken   string
	ChannelUsername string
	AdminIDs        map[int64]struct{}
	Nominations     []string

	StorageBackend Backend
	SQLitePath     string
	DatabaseURL    string
	SupabaseURL    string
	SupabaseKey    string

	MetricsAddr    string
	Workers        int
	SessionTTL     time.Duration
	HandlerTimeout time.Duration
	LogLevel       string
	ResultsNotice  string
}

// LoadConfig читает окружение (и .env, если он есть) и проверяет результат.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	admins, err := parseAdminIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return nil, err
	}
	sessionTTL, err := getEnvAsDuration("SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	handlerTimeout, err := getEnvAsDuration("HANDLER_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		ChannelUsername: strings.TrimSpace(os.Getenv("CHANNEL_USERNAME")),
		AdminIDs:        admins,
		Nominations:     parseNominations(os.Getenv("NOMINATIONS")),

		StorageBackend: Backend(strings.ToLower(getEnvWithDefault("STORAGE_BACKEND", string(BackendSQLite)))),
		SQLitePath:     getEnvWithDefault("SQLITE_PATH", "voting.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SupabaseURL:    os.Getenv("SUPABASE_URL"),
		SupabaseKey:    os.Getenv("SUPABASE_KEY"),

		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		Workers:        getEnvAsInt("WORKERS", 8),
		SessionTTL:     sessionTTL,
		HandlerTimeout: handlerTimeout,
		LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
		ResultsNotice:  getEnvWithDefault("RESULTS_NOTICE", defaultResultsNotice),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("WORKERS must be positive, got %d", c.Workers)
	}

	switch c.StorageBackend {
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return errors.New("SUPABASE_URL and SUPABASE_KEY are required for the supabase backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	return nil
}

// IsAdmin проверяет статический список администраторов
func (c *Config) IsAdmin(userID int64) bool {
	_, ok := c.AdminIDs[userID]
	return ok
}

func parseAdminIDs(raw string) (map[int64]struct{}, error) {
	admins := make(map[int64]struct{})
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin id %q: %w", part, err)
		}
		admins[id] = struct{}{}
	}
	return admins, nil
}

func parseNominations(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return append([]string(nil), DefaultNominations...)
	}

	seen := make(map[string]struct{})
	var names []string
	for _, part := range strings.Split(raw, ";") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
