package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Session   SessionConfig   `mapstructure:"session"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// BackendConfig selects the data source. Mode "memory" serves seeded sample data in-process,
// "http" talks to the clinic backend at BaseURL. A zero RequestTimeout means no timeout.
type BackendConfig struct {
	Mode           string        `mapstructure:"mode"`
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type StorageConfig struct {
	Driver      string `mapstructure:"driver"`
	Dir         string `mapstructure:"dir"`
	RedisURL    string `mapstructure:"redis_url"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	Secure     bool          `mapstructure:"secure"`
	TTL        time.Duration `mapstructure:"ttl"`
}

type AuthConfig struct {
	JWTSecret   string     `mapstructure:"jwt_secret"`
	ExpiryHours int        `mapstructure:"expiry_hours"`
	DemoUsers   []DemoUser `mapstructure:"demo_users"`
}

// DemoUser is a login accepted by the in-memory backend.
type DemoUser struct {
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Role     string `mapstructure:"role"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// secrets are read from the environment only and override the file.
type secrets struct {
	JWTSecret     string `envconfig:"JWT_SECRET"`
	RedisURL      string `envconfig:"REDIS_URL"`
	PostgresDSN   string `envconfig:"POSTGRES_DSN"`
	BackendURL    string `envconfig:"BACKEND_URL"`
	SessionSecure *bool  `envconfig:"SESSION_SECURE"`
}

const envPrefix = "console"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)

	v.SetDefault("backend.mode", "memory")
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.request_timeout", 0)

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.dir", "./data")

	v.SetDefault("session.cookie_name", "console_session")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.ttl", 0)

	v.SetDefault("auth.expiry_hours", 24)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 1.0)
	v.SetDefault("rate_limit.burst", 5)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// LoadConfig reads config.yaml from the usual paths (a missing file is fine), then applies
// CONSOLE_* environment overrides.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var s secrets
	if err := envconfig.Process(envPrefix, &s); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	s.apply(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (s secrets) apply(c *Config) {
	if s.JWTSecret != "" {
		c.Auth.JWTSecret = s.JWTSecret
	}
	if s.RedisURL != "" {
		c.Storage.RedisURL = s.RedisURL
	}
	if s.PostgresDSN != "" {
		c.Storage.PostgresDSN = s.PostgresDSN
	}
	if s.BackendURL != "" {
		c.Backend.BaseURL = s.BackendURL
	}
	if s.SessionSecure != nil {
		c.Session.Secure = *s.SessionSecure
	}
}

// Validate rejects combinations the console cannot start with.
func (c *Config) Validate() error {
	switch c.Backend.Mode {
	case "memory":
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is required in memory backend mode")
		}
	case "http":
		if c.Backend.BaseURL == "" {
			return fmt.Errorf("backend.base_url is required in http backend mode")
		}
	default:
		return fmt.Errorf("unknown backend.mode %q", c.Backend.Mode)
	}

	switch c.Storage.Driver {
	case "memory":
	case "file":
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage.dir is required for the file driver")
		}
	case "redis":
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("storage.redis_url is required for the redis driver")
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name is required")
	}
	return nil
}

func (a AuthConfig) Expiry() time.Duration {
	return time.Duration(a.ExpiryHours) * time.Hour
}
