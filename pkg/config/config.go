package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config groups the application configuration (read via Viper from env vars
// and optionally from an .env file).
type Config struct {
	App  AppConfig
	HTTP HTTPConfig
	DB   DBConfig
	JWT  JWTConfig
	SMTP SMTPConfig
}

// AppConfig general application settings.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	SiteName string // display name used in emails and PDFs
}

// HTTPConfig HTTP server settings.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DBConfig PostgreSQL settings. If DatabaseURL is non-empty it is used as the
// complete connection string; otherwise the DSN is built from the parts.
type DBConfig struct {
	DatabaseURL   string
	Host          string
	Port          int
	User          string
	Password      string
	DBName        string
	SSLMode       string
	Migrate       bool   // run SQL migrations on startup
	MigrationsDir string // file source for golang-migrate
}

// ConnectionString returns DatabaseURL when set, the built DSN otherwise.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN builds the PostgreSQL connection string, URL-encoding credentials so
// special characters in the password survive.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig signed-token settings. Tokens travel in an HttpOnly cookie set on
// login and registration; Authorization: Bearer is accepted as well.
type JWTConfig struct {
	Secret     string
	Expiration int // minutes
	Issuer     string
	CookieName string
}

// SMTPConfig outgoing mail settings for invoice delivery.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	User     string
	Password string
}

// Load reads configuration from environment variables, with an optional .env
// file as fallback. Env vars take precedence.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // missing file is fine

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "efakture-api"),
			SiteName: getString(v, "SITE_NAME", "SEF e-Fakture"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		DB: DBConfig{
			DatabaseURL:   getString(v, "DATABASE_URL", ""),
			Host:          getString(v, "DB_HOST", "localhost"),
			Port:          getInt(v, "DB_PORT", 5432),
			User:          getString(v, "DB_USER", "postgres"),
			Password:      getString(v, "DB_PASSWORD", ""),
			DBName:        getString(v, "DB_NAME", "efakture"),
			SSLMode:       getString(v, "DB_SSLMODE", "disable"),
			Migrate:       getBool(v, "MIGRATIONS", false),
			MigrationsDir: getString(v, "MIGRATIONS_DIR", "migrations"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 7*24*60),
			Issuer:     getString(v, "JWT_ISSUER", "efakture"),
			CookieName: getString(v, "JWT_COOKIE_NAME", "eg_token"),
		},
		SMTP: SMTPConfig{
			Host:     getString(v, "SMTP_HOST", "localhost"),
			Port:     getInt(v, "SMTP_PORT", 1025),
			From:     getString(v, "SMTP_FROM", "no-reply@example.com"),
			User:     getString(v, "SMTP_USER", ""),
			Password: getString(v, "SMTP_PASS", ""),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
