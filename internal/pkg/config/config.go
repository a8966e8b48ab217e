package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	JWTSecret       string        `env:"JWT_SECRET"`
	TokenTTL        time.Duration `env:"TOKEN_TTL,        default=24h"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	StoreBackend    string        `env:"STORE_BACKEND,    default=mongo"`
	DispatchWorkers int           `env:"DISPATCH_WORKERS, default=8"`

	Mongo MongoConfig
	Redis RedisConfig
	Admin AdminConfig
}

type MongoConfig struct {
	URI            string        `env:"MONGO_URI,             default=mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DB,              default=lodge"`
	AppName        string        `env:"MONGO_APP_NAME,        default=lodge-membership"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT, default=10s"`
	// OperationTimeout of zero leaves operations to the driver defaults.
	OperationTimeout time.Duration `env:"MONGO_OPERATION_TIMEOUT"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	DB       int           `env:"REDIS_DB,       default=0"`
	Password string        `env:"REDIS_PASSWORD"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,  default=5s"`
}

// AdminConfig seeds the first system administrator on a deployment that has
// none. Leave ADMIN_EMAIL empty to skip seeding.
type AdminConfig struct {
	Email       string `env:"ADMIN_EMAIL"`
	Password    string `env:"ADMIN_PASSWORD"`
	DisplayName string `env:"ADMIN_NAME, default=System Admin"`
}

// IsDevelopment reports whether the service runs outside production.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
// A .env file in the working directory, when present, seeds the environment
// first; variables already set win.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := Process(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// Process resolves the configuration from lookuper.
func Process(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Admin.Email != "" && cfg.Admin.Password == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}
	return &cfg, nil
}
