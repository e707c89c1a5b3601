package config

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration for the ERP backend.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT,default=8080"`
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`

	DBHost     string `env:"DB_HOST,default=localhost"`
	DBPort     string `env:"DB_PORT,default=5432"`
	DBUser     string `env:"DB_USER,default=postgres"`
	DBPassword string `env:"DB_PASSWORD,default=postgres"`
	DBName     string `env:"DB_NAME,default=erpdb"`
	DBSSLMode  string `env:"DB_SSLMODE,default=disable"`

	JWTSecret      string        `env:"JWT_SECRET,default=change-me-in-production"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL,default=1h"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	JaegerEndpoint string `env:"JAEGER_ENDPOINT,default=http://localhost:14268/api/traces"`

	SeedOnStart bool `env:"SEED,default=false"`
}

// IsDevelopment reports whether the service runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load returns a Config populated from the environment. A .env file in the
// working directory is read first when present.
func Load(ctx context.Context) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
