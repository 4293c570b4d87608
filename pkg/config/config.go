package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type AppConfig struct {
	ServiceName string `toml:"service_name" validate:"required"`
	Environment string `toml:"environment" validate:"oneof=development test production"`
	Port        string `toml:"port" validate:"required,numeric"`
	GinMode     string `toml:"gin_mode" validate:"oneof=debug release test"`
	Theme       string `toml:"theme" validate:"oneof=light dark"`

	Storage   StorageConfig   `toml:"storage"`
	Telemetry TelemetryConfig `toml:"telemetry"`

	EnforceHTTPS bool   `toml:"enforce_https"`
	CursorSecret string `toml:"cursor_secret"`

	RateLimitEnabled bool                       `toml:"rate_limit_enabled"`
	RateLimitConfigs map[string]RateLimitConfig `toml:"rate_limits"`

	CacheEnabled bool                   `toml:"cache_enabled"`
	CacheConfigs map[string]CacheConfig `toml:"cache"`
}

type StorageConfig struct {
	Driver   string `toml:"driver" validate:"oneof=memory sqlite postgres redis"`
	Path     string `toml:"path" validate:"required_if=Driver sqlite"`
	URL      string `toml:"url" validate:"required_if=Driver postgres"`
	RedisURL string `toml:"redis_url" validate:"required_if=Driver redis"`
	RedisKey string `toml:"redis_key"`
	LogSQL   bool   `toml:"log_sql"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `toml:"otlp_endpoint"`
	MetricsPort  string `toml:"metrics_port" validate:"omitempty,numeric"`
}

// RateLimitConfig is keyed by "METHOD /route" or "/route"; "default" applies
// to every other request.
type RateLimitConfig struct {
	Requests int           `toml:"requests" validate:"gt=0"`
	Window   time.Duration `toml:"window" validate:"gt=0"`
}

type CacheConfig struct {
	TTL     time.Duration `toml:"ttl"`
	Enabled bool          `toml:"enabled"`
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		ServiceName: "todolist",
		Environment: "development",
		Port:        "8080",
		GinMode:     "debug",
		Theme:       ThemeLight,
		Storage: StorageConfig{
			Driver:   DriverMemory,
			Path:     "todolist.db",
			RedisKey: "todolist:todos",
		},
		Telemetry: TelemetryConfig{
			MetricsPort: "9090",
		},
		RateLimitEnabled: false,
		RateLimitConfigs: map[string]RateLimitConfig{
			"POST /items": {
				Requests: 30,
				Window:   time.Minute,
			},
			"POST /api/todos": {
				Requests: 30,
				Window:   time.Minute,
			},
			"GET /api/todos": {
				Requests: 100,
				Window:   time.Minute,
			},
			"default": {
				Requests: 60,
				Window:   time.Minute,
			},
		},
		CacheEnabled: true,
		CacheConfigs: map[string]CacheConfig{
			"/api/todos": {
				TTL:     3 * time.Second,
				Enabled: true,
			},
			"default": {
				TTL:     time.Second,
				Enabled: false,
			},
		},
		EnforceHTTPS: false,
		CursorSecret: "todolist-dev-cursor",
	}
}

// Load builds the configuration from defaults, then the TOML file at path (if
// any), then environment variables, and validates the result.
func Load(path string) (*AppConfig, error) {
	cfg := GetDefaultConfig()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}

	rateLimitSet := false

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)

		if err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}

		rateLimitSet = md.IsDefined("rate_limit_enabled")
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if value, ok := os.LookupEnv("RATE_LIMIT_ENABLED"); ok && value != "" {
		rateLimitSet = true
	}

	// Browser suites drive development and test builds hard; only production
	// throttles unless told otherwise.
	if !rateLimitSet {
		cfg.RateLimitEnabled = cfg.IsProduction()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AppConfig) Validate() error {
	err := validator.New().Struct(c)

	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors

	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("config: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))

	for _, fieldErr := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", fieldErr.Namespace(), fieldErr.Tag()))
	}

	return fmt.Errorf("config: invalid configuration: %s", strings.Join(messages, "; "))
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func (c *AppConfig) Address() string {
	return ":" + c.Port
}

func applyEnv(cfg *AppConfig) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.GinMode, "GIN_MODE")
	setString(&cfg.Environment, "APP_ENV")
	setString(&cfg.Theme, "THEME")
	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Storage.Path, "DATABASE_PATH")
	setString(&cfg.Storage.URL, "DATABASE_URL")
	setString(&cfg.Storage.RedisURL, "REDIS_URL")
	setString(&cfg.Telemetry.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&cfg.Telemetry.MetricsPort, "METRICS_PORT")
	setString(&cfg.CursorSecret, "CURSOR_SECRET_KEY")

	cfg.Theme = strings.ToLower(cfg.Theme)
	cfg.Storage.Driver = strings.ToLower(cfg.Storage.Driver)

	for key, target := range map[string]*bool{
		"ENFORCE_HTTPS":      &cfg.EnforceHTTPS,
		"RATE_LIMIT_ENABLED": &cfg.RateLimitEnabled,
		"CACHE_ENABLED":      &cfg.CacheEnabled,
		"SQL_LOG":            &cfg.Storage.LogSQL,
	} {
		if err := setBool(target, key); err != nil {
			return err
		}
	}

	return nil
}

func setString(target *string, key string) {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func setBool(target *bool, key string) error {
	value, ok := os.LookupEnv(key)

	if !ok || value == "" {
		return nil
	}

	parsed, err := strconv.ParseBool(value)

	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}

	*target = parsed

	return nil
}
