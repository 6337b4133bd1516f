package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Built-in secrets for local development. InsecureSecrets reports them.
const (
	DefaultSessionSecret = "default-secret-key-change-me"
	DefaultJWTSecret     = "fallback-secret"
)

type Config struct {
	Port string

	DBDriver    string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DatabaseURL string

	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string

	JWTSecret          string
	GitHubClientID     string
	GitHubClientSecret string
	GitHubRedirectURI  string
	ClientURL          string

	LogLevel string
	LogFile  string

	// AdminEmails are granted the admin role by the seed command.
	AdminEmails []string
}

func Load() *Config {
	v := viper.New()

	v.SetDefault("PORT", "4000")
	v.SetDefault("GIN_MODE", "debug")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "cfp")
	v.SetDefault("DB_PASSWORD", "cfp")
	v.SetDefault("DB_NAME", "cfp")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DATABASE_URL", "")

	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("SESSION_SECRET", DefaultSessionSecret)

	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("GITHUB_CLIENT_ID", "")
	v.SetDefault("GITHUB_CLIENT_SECRET", "")
	v.SetDefault("GITHUB_REDIRECT_URI", "http://localhost:4000/api/v1/auth/github/callback")
	v.SetDefault("CLIENT_URL", "http://localhost:3000")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("ADMIN_EMAILS", "")

	v.AutomaticEnv()

	// Optional local .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	return &Config{
		Port:               v.GetString("PORT"),
		DBDriver:           strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:             v.GetString("DB_HOST"),
		DBPort:             v.GetString("DB_PORT"),
		DBUser:             v.GetString("DB_USER"),
		DBPassword:         v.GetString("DB_PASSWORD"),
		DBName:             v.GetString("DB_NAME"),
		DBSSLMode:          v.GetString("DB_SSLMODE"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		RedisHost:          v.GetString("REDIS_HOST"),
		RedisPort:          v.GetString("REDIS_PORT"),
		SessionSecret:      v.GetString("SESSION_SECRET"),
		GinMode:            v.GetString("GIN_MODE"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		GitHubClientID:     v.GetString("GITHUB_CLIENT_ID"),
		GitHubClientSecret: v.GetString("GITHUB_CLIENT_SECRET"),
		GitHubRedirectURI:  v.GetString("GITHUB_REDIRECT_URI"),
		ClientURL:          v.GetString("CLIENT_URL"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFile:            v.GetString("LOG_FILE"),
		AdminEmails:        splitList(v.GetString("ADMIN_EMAILS")),
	}
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// InsecureSecrets lists the secret variables left empty or at their built-in value.
func (c *Config) InsecureSecrets() []string {
	var names []string
	if c.SessionSecret == "" || c.SessionSecret == DefaultSessionSecret {
		names = append(names, "SESSION_SECRET")
	}
	if c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret {
		names = append(names, "JWT_SECRET")
	}
	return names
}

// DSN builds the connection string for the configured driver.
// DATABASE_URL wins when set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	switch c.DBDriver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	case "sqlite":
		return c.DBName + ".db"
	default:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
	}
}

// RedisAddr returns host:port, or "" when no redis is configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
