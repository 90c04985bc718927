package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// minReleaseSecretLen is the shortest JWT secret accepted in release mode
const minReleaseSecretLen = 32

// Config holds all runtime settings, read from the environment
type Config struct {
	DatabaseURL      string        `env:"DATABASE_URL,required,notEmpty"`
	DBConnectRetries int           `env:"DB_CONNECT_RETRIES" envDefault:"5"`
	DBRetryInterval  time.Duration `env:"DB_RETRY_INTERVAL" envDefault:"5s"`
	DBMaxConns       int32         `env:"DB_MAX_CONNS" envDefault:"10"`

	JWTSecret     string        `env:"JWT_SECRET_KEY,required,notEmpty"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`

	Port            string        `env:"PORT" envDefault:"8000"`
	CORSOrigin      string        `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	GinMode         string        `env:"GIN_MODE" envDefault:"debug"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads an optional .env file and then parses the environment into a
// validated Config. It reports whether a .env file was found.
func Load() (*Config, bool, error) {
	dotenv := godotenv.Load() == nil

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, dotenv, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, dotenv, err
	}
	return &cfg, dotenv, nil
}

// Validate checks cross-field constraints env tags cannot express
func (c *Config) Validate() error {
	var errs []error
	if c.JWTExpiration <= 0 {
		errs = append(errs, fmt.Errorf("JWT_EXPIRATION must be positive, got %s", c.JWTExpiration))
	}
	switch c.GinMode {
	case gin.DebugMode, gin.TestMode:
	case gin.ReleaseMode:
		if len(c.JWTSecret) < minReleaseSecretLen {
			errs = append(errs, fmt.Errorf("JWT_SECRET_KEY must be at least %d bytes in release mode", minReleaseSecretLen))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown GIN_MODE %q", c.GinMode))
	}
	if !strings.HasPrefix(c.CORSOrigin, "http://") && !strings.HasPrefix(c.CORSOrigin, "https://") {
		errs = append(errs, fmt.Errorf("CORS_ORIGIN must start with http:// or https://, got %q", c.CORSOrigin))
	}
	if c.DBConnectRetries < 1 {
		errs = append(errs, errors.New("DB_CONNECT_RETRIES must be at least 1"))
	}
	if c.DBMaxConns < 1 {
		errs = append(errs, errors.New("DB_MAX_CONNS must be at least 1"))
	}
	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, errors.New("PORT must not be blank"))
	}
	return errors.Join(errs...)
}
