package config

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers understood by repository.Open.
const (
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Supabase  SupabaseConfig  `mapstructure:"supabase"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Trends    TrendsConfig    `mapstructure:"trends"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Env             string        `mapstructure:"env"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig selects the log level and output format
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SupabaseConfig holds Supabase-specific configuration
type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
	// JWTSecret enables local verification of access tokens
	JWTSecret string `mapstructure:"jwt_secret"`
}

// StorageConfig selects and configures the observation store
type StorageConfig struct {
	Driver        string        `mapstructure:"driver"`
	Table         string        `mapstructure:"table"`
	PostgresDSN   string        `mapstructure:"postgres_dsn"`
	SQLitePath    string        `mapstructure:"sqlite_path"`
	MongoURI      string        `mapstructure:"mongo_uri"`
	MongoDatabase string        `mapstructure:"mongo_database"`
	QueryTimeout  time.Duration `mapstructure:"query_timeout"`
}

// AuthConfig toggles bearer-token authentication on the API routes
type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// CORSConfig lists the origins the dashboard is served from
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig configures the per-client token bucket
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// TrendsConfig bounds the analysis window
type TrendsConfig struct {
	DefaultDays int `mapstructure:"default_days"`
	MaxDays     int `mapstructure:"max_days"`
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	// Local development keeps secrets in .env; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GUTCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Un-prefixed names used by the hosting platform and older deployments
	_ = v.BindEnv("server.port", "GUTCHECK_SERVER_PORT", "PORT")
	_ = v.BindEnv("supabase.url", "GUTCHECK_SUPABASE_URL", "SUPABASE_URL")
	_ = v.BindEnv("supabase.service_key", "GUTCHECK_SUPABASE_SERVICE_KEY", "SUPABASE_SERVICE_KEY")
	_ = v.BindEnv("supabase.jwt_secret", "GUTCHECK_SUPABASE_JWT_SECRET", "SUPABASE_JWT_SECRET")
	_ = v.BindEnv("storage.postgres_dsn", "GUTCHECK_STORAGE_POSTGRES_DSN", "DATABASE_URL")
	_ = v.BindEnv("storage.mongo_uri", "GUTCHECK_STORAGE_MONGO_URI", "MONGO_URI")
	_ = v.BindEnv("cors.allowed_origins", "GUTCHECK_CORS_ALLOWED_ORIGINS", "CORS_ALLOWED_ORIGINS")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("storage.driver", DriverSupabase)
	v.SetDefault("storage.table", "health_events")
	v.SetDefault("storage.sqlite_path", "gutcheck.db")
	v.SetDefault("storage.mongo_database", "gutcheck")
	v.SetDefault("storage.query_timeout", 10*time.Second)
	v.SetDefault("auth.enabled", false)
	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("rate_limit.requests_per_second", 5.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("trends.default_days", 30)
	v.SetDefault("trends.max_days", 365)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// A comma separated env var arrives as a single element
	if len(config.CORS.AllowedOrigins) == 1 && strings.Contains(config.CORS.AllowedOrigins[0], ",") {
		config.CORS.AllowedOrigins = strings.Split(config.CORS.AllowedOrigins[0], ",")
	}
	for i, origin := range config.CORS.AllowedOrigins {
		config.CORS.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that all required configuration values are present
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSupabase:
		if c.Supabase.URL == "" {
			return fmt.Errorf("SUPABASE_URL is required for the supabase storage driver")
		}
		if c.Supabase.ServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required for the supabase storage driver")
		}
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres storage driver")
		}
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite storage driver")
		}
	case DriverMongo:
		if c.Storage.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if !tableName.MatchString(c.Storage.Table) {
		return fmt.Errorf("storage.table %q is not a valid table name", c.Storage.Table)
	}
	if c.Auth.Enabled && c.Supabase.JWTSecret == "" && (c.Supabase.URL == "" || c.Supabase.ServiceKey == "") {
		return fmt.Errorf("auth requires SUPABASE_JWT_SECRET or a Supabase URL and service key")
	}
	if c.Trends.DefaultDays <= 0 {
		return fmt.Errorf("trends.default_days must be positive")
	}
	if c.Trends.MaxDays < c.Trends.DefaultDays {
		return fmt.Errorf("trends.max_days must be at least trends.default_days")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
