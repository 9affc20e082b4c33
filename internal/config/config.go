package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the server needs. It is loaded once in main and
// passed down explicitly.
type Config struct {
	AppEnv   string
	HTTPAddr string

	Postgres PostgresConfig
	Redis    RedisConfig
	Session  SessionConfig
	Log      LogConfig
	Import   ImportConfig
	Admin    AdminConfig

	CORSAllowedOrigins   []string
	RunMigrations        bool
	StatsRefreshInterval time.Duration
	LoginRatePerSec      float64
	LoginRateBurst       int
}

type PostgresConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	ConnectRetries int
}

// DSN returns a URL-style connection string accepted by both lib/pq and pgx.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis host was configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
}

type LogConfig struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type ImportConfig struct {
	// StrictLookups turns an unresolved level_code or coach_username into a
	// row error instead of a NULL foreign key.
	StrictLookups bool
}

type AdminConfig struct {
	SQLEnabled      bool
	SQLTimeout      time.Duration
	ProtectedTables []string
}

const devSessionSecret = "quizdesk-dev-secret-change-me"

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDR", ":8080")

	v.SetDefault("PG_HOST", "localhost")
	v.SetDefault("PG_PORT", "5432")
	v.SetDefault("PG_USER", "quizdesk")
	v.SetDefault("PG_PASSWORD", "")
	v.SetDefault("PG_DB", "quizdesk")
	v.SetDefault("PG_SSLMODE", "disable")
	v.SetDefault("DB_CONNECT_RETRIES", 10)

	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SESSION_SECRET", devSessionSecret)
	v.SetDefault("SESSION_TTL", 7*24*time.Hour)
	v.SetDefault("SESSION_COOKIE_NAME", "quizdesk_session")
	v.SetDefault("COOKIE_SECURE", false)

	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)

	v.SetDefault("IMPORT_STRICT_LOOKUPS", false)

	v.SetDefault("ADMIN_SQL_ENABLED", true)
	v.SetDefault("ADMIN_SQL_TIMEOUT", 30*time.Second)
	v.SetDefault("ADMIN_PROTECTED_TABLES", "users,goose_db_version")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("STATS_REFRESH_INTERVAL", 5*time.Minute)
	v.SetDefault("LOGIN_RATE_PER_SEC", 1.0)
	v.SetDefault("LOGIN_RATE_BURST", 5)
}

// Load reads configuration from the environment. A dotenv file is loaded first
// when present: ENV_FILE if set, otherwise ./.env. Variables already set in the
// environment win over the file.
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	explicit := envFile != ""
	if !explicit {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	} else if explicit || !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv:   v.GetString("APP_ENV"),
		HTTPAddr: v.GetString("HTTP_ADDR"),
		Postgres: PostgresConfig{
			Host:           v.GetString("PG_HOST"),
			Port:           v.GetString("PG_PORT"),
			User:           v.GetString("PG_USER"),
			Password:       v.GetString("PG_PASSWORD"),
			DBName:         v.GetString("PG_DB"),
			SSLMode:        v.GetString("PG_SSLMODE"),
			ConnectRetries: v.GetInt("DB_CONNECT_RETRIES"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Secret:       v.GetString("SESSION_SECRET"),
			TTL:          v.GetDuration("SESSION_TTL"),
			CookieName:   v.GetString("SESSION_COOKIE_NAME"),
			CookieSecure: v.GetBool("COOKIE_SECURE"),
		},
		Log: LogConfig{
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
		Import: ImportConfig{
			StrictLookups: v.GetBool("IMPORT_STRICT_LOOKUPS"),
		},
		Admin: AdminConfig{
			SQLEnabled:      v.GetBool("ADMIN_SQL_ENABLED"),
			SQLTimeout:      v.GetDuration("ADMIN_SQL_TIMEOUT"),
			ProtectedTables: splitList(v.GetString("ADMIN_PROTECTED_TABLES")),
		},
		CORSAllowedOrigins:   splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RunMigrations:        v.GetBool("RUN_MIGRATIONS"),
		StatsRefreshInterval: v.GetDuration("STATS_REFRESH_INTERVAL"),
		LoginRatePerSec:      v.GetFloat64("LOGIN_RATE_PER_SEC"),
		LoginRateBurst:       v.GetInt("LOGIN_RATE_BURST"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) validate() error {
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Session.TTL)
	}
	if c.IsProduction() && c.Session.Secret == devSessionSecret {
		return fmt.Errorf("SESSION_SECRET must be set in production")
	}
	if c.Admin.SQLTimeout <= 0 {
		return fmt.Errorf("ADMIN_SQL_TIMEOUT must be positive, got %s", c.Admin.SQLTimeout)
	}
	if c.Postgres.ConnectRetries < 1 {
		c.Postgres.ConnectRetries = 1
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
