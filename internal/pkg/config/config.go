package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, backend origin, secrets)
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	Backend    BackendConfig
	Bulk       BulkConfig
	Countdown  CountdownConfig
	Session    SessionConfig
	Cookie     CookieConfig
	Preference PreferenceConfig
	DB         DBConfig
	CORS       CORSConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
	// Open countdown streams are cancelled when shutdown starts, so this only bounds ordinary requests.
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type BackendConfig struct {
	APIURL string `envconfig:"VOUCHER_API_URL" required:"true"`
	// 0 disables the client timeout; outstanding calls then end only with the request context.
	Timeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"0s"`
}

type BulkConfig struct {
	// 0 means every selected id is deleted at once.
	DeleteConcurrency int `envconfig:"BULK_DELETE_CONCURRENCY" default:"8"`
}

type CountdownConfig struct {
	Tick time.Duration `envconfig:"COUNTDOWN_TICK" default:"1s"`
}

type SessionConfig struct {
	Secret string        `envconfig:"SESSION_SECRET" required:"true"`
	TTL    time.Duration `envconfig:"SESSION_TTL" default:"12h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"false"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

type PreferenceConfig struct {
	// memory | postgres
	Store string `envconfig:"PREFERENCE_STORE" default:"memory"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"console"`
	Password string `envconfig:"DB_PASSWORD" default:""`
	DBName   string `envconfig:"DB_NAME" default:"console"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Content-Disposition"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

const (
	PreferenceStoreMemory   = "memory"
	PreferenceStorePostgres = "postgres"
)

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	switch cfg.Preference.Store {
	case PreferenceStoreMemory, PreferenceStorePostgres:
	default:
		return Config{}, fmt.Errorf("unsupported PREFERENCE_STORE %q", cfg.Preference.Store)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8889", // Test port
			ShutdownTimeout: time.Second,
		},
		Backend: BackendConfig{
			APIURL: "http://localhost:18000",
		},
		Bulk: BulkConfig{
			DeleteConcurrency: 4,
		},
		Countdown: CountdownConfig{
			Tick: time.Second,
		},
		Session: SessionConfig{
			Secret: "test-session-secret",
			TTL:    time.Hour,
		},
		Cookie: CookieConfig{
			SameSite: "Lax",
		},
		Preference: PreferenceConfig{
			Store: PreferenceStoreMemory,
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
	}
}
