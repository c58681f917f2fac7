package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server"`

	// Store configuration
	Store StoreConfig `yaml:"store"`

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `yaml:"port" env:"PORT" env-default:"5000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

// Store drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// StoreConfig holds database connection settings
type StoreConfig struct {
	Driver         string        `yaml:"driver" env:"STORE_DRIVER" env-default:"mongo"`
	MongoURL       string        `yaml:"mongo_url" env:"MONGO_URL" env-default:"mongodb://localhost:27017"`
	MongoDatabase  string        `yaml:"mongo_database" env:"MONGO_DATABASE" env-default:"smartformbuilder"`
	PostgresURL    string        `yaml:"postgres_url" env:"POSTGRES_URL"`
	SQLitePath     string        `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"./data/forms.db"`
	MigrationsPath string        `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	MaxOpenConns   int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns   int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	MaxLifetime    time.Duration `yaml:"max_lifetime" env:"DB_MAX_LIFETIME" env-default:"5m"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" env-default:"10s"`
}

// AuthConfig holds token and bootstrap admin settings
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL      time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"24h"`
	AdminEmail    string        `yaml:"admin_email" env:"ADMIN_EMAIL" env-default:"admin@example.com"`
	AdminPassword string        `yaml:"admin_password" env:"ADMIN_PASSWORD" env-default:"admin123"`
	BcryptCost    int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"` // "json" or "pretty"
}

// Load reads configuration from an optional .env file, an optional YAML file
// at CONFIG_PATH and the environment, in increasing order of precedence.
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.MongoURL == "" {
			return fmt.Errorf("MONGO_URL is required for the mongo store")
		}
	case DriverPostgres:
		if c.Store.PostgresURL == "" {
			return fmt.Errorf("POSTGRES_URL is required for the postgres store")
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite store")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of: mongo, postgres, sqlite (got %q)", c.Store.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

// MigrationsDir returns the migration source directory for the SQL driver in use
func (c *StoreConfig) MigrationsDir() string {
	return filepath.Join(c.MigrationsPath, c.Driver)
}
