package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	DriverSQLite   = "sqlite"
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"

	AuthRequired = "required"
	AuthOptional = "optional"
)

type AppConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"taskboard"`
	Version     string `env:"SERVICE_VERSION" envDefault:"dev"`
	Port        string `env:"PORT" envDefault:"3000"`

	EnforceHTTPS bool `env:"ENFORCE_HTTPS" envDefault:"false"`

	Database  DatabaseConfig  `envPrefix:"DB_"`
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
	Log       LogConfig
}

type DatabaseConfig struct {
	Driver        string `env:"DRIVER" envDefault:"sqlite"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"file:taskboard.db?_busy_timeout=5000&_foreign_keys=on"`
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"taskboard"`
	PostgresURL   string `env:"POSTGRES_URL"`
}

type AuthConfig struct {
	Mode      string        `env:"AUTH_MODE" envDefault:"required"`
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
}

type RateLimitConfig struct {
	Enabled  bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RedisURL string `env:"REDIS_URL"`
}

type TelemetryConfig struct {
	Enabled      bool   `env:"TELEMETRY_ENABLED" envDefault:"false"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	MetricsPort  string `env:"METRICS_PORT" envDefault:"9090"`
}

type LogConfig struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	LokiURL string `env:"LOKI_URL"`
}

// Load reads the configuration from the process environment.
func Load() (*AppConfig, error) {
	cfg, err := env.ParseAs[AppConfig]()

	if err != nil {
		return nil, err
	}

	return &cfg, cfg.Validate()
}

// LoadFrom reads the configuration from the given variables only.
func LoadFrom(environment map[string]string) (*AppConfig, error) {
	cfg, err := env.ParseAsWithOptions[AppConfig](env.Options{Environment: environment})

	if err != nil {
		return nil, err
	}

	return &cfg, cfg.Validate()
}

func (c *AppConfig) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverSQLite, DriverMongo:
	case DriverPostgres:
		if c.Database.PostgresURL == "" {
			errs = append(errs, errors.New("DB_POSTGRES_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver))
	}

	if c.Auth.Mode != AuthRequired && c.Auth.Mode != AuthOptional {
		errs = append(errs, fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode))
	}

	if c.Auth.JWTSecret == "" && !c.IsDevelopment() {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}

	return errors.Join(errs...)
}

func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == EnvDevelopment || c.Environment == EnvTest
}

func (c *AppConfig) AuthRequired() bool {
	return c.Auth.Mode == AuthRequired
}

// GetDefaultConfig is the configuration used by tests.
func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Environment: EnvTest,
		ServiceName: "taskboard",
		Version:     "test",
		Port:        "3000",
		Database: DatabaseConfig{
			Driver:     DriverSQLite,
			SQLitePath: "file::memory:?cache=shared",
		},
		Auth: AuthConfig{
			Mode:      AuthRequired,
			JWTSecret: "test-secret",
			JWTTTL:    time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled: false,
		},
		Telemetry: TelemetryConfig{
			MetricsPort: "9090",
		},
		Log: LogConfig{
			Level: "error",
		},
	}
}
