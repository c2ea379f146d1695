package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to an env var; an optional .env file in the working
// directory is read first.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`
	LoginRateLimit int    `mapstructure:"LOGIN_RATE_LIMIT"` // attempts per minute per IP
	APIRateLimit   int    `mapstructure:"API_RATE_LIMIT"`   // requests per minute per IP
	CORSOrigins    string `mapstructure:"CORS_ORIGINS"`     // comma separated, "*" allows any

	// Database: postgres://..., mysql://... or a sqlite file path
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBDebug     bool   `mapstructure:"DB_DEBUG"`

	// Redis; empty disables the price cache and ticket jobs
	RedisURL string `mapstructure:"REDIS_URL"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`

	// SMTP
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	// Business
	TicketStoragePath string `mapstructure:"TICKET_STORAGE_PATH"`
	TiendaNombre      string `mapstructure:"TIENDA_NOMBRE"`
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("WORKER_POOL_SIZE", 2)
	viper.SetDefault("LOGIN_RATE_LIMIT", 20)
	viper.SetDefault("API_RATE_LIMIT", 1000)
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("DATABASE_URL", "minimercado.db")
	viper.SetDefault("DB_DEBUG", false)
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("JWT_SECRET", "minimercado-dev-secret")
	viper.SetDefault("JWT_EXPIRATION_HOURS", 24)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("TICKET_STORAGE_PATH", "/tmp/minimercado/tickets")
	viper.SetDefault("TIENDA_NOMBRE", "Minimercado")

	// Optional .env file for local development; missing file is fine
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV selects production mode.
func (c *Config) IsProduction() bool { return c.Env == "production" }
