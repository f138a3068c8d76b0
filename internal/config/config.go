// Package config
package config

import (
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Address        string
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string

	AccountAPIURL     string
	AccountAPITimeout time.Duration

	LoginSubmitDelay time.Duration
	PostLoginRoute   string
	ToastDuration    time.Duration
	ToastIdle        time.Duration

	SessionStore         string
	RedisURL             string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	CookieSecure         bool

	DialogTTL time.Duration

	Database DatabaseConfig
}

// DatabaseConfig is only consumed by the migration tool.
type DatabaseConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
}

// URL renders the connection settings as a postgres:// connection string.
func (d DatabaseConfig) URL() string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, d.Port),
		Path:   "/" + d.Database,
	}
	if d.User != "" {
		if d.Password != "" {
			u.User = url.UserPassword(d.User, d.Password)
		} else {
			u.User = url.User(d.User)
		}
	}
	return u.String()
}

func Load() *Config {
	_ = godotenv.Load()

	// Logs
	logLevel := getEnv("LOG_LEVEL", "info")
	logFormat := getEnv("LOG_FORMAT", "text")

	// Server HTTP Address
	addr := getEnv("HTTP_ADDR", ":3000")

	// Server Allowed Origins
	var origins []string
	rawOrigins := os.Getenv("ALLOWED_ORIGINS")
	if rawOrigins != "" {
		parts := strings.SplitSeq(rawOrigins, ",")
		for o := range parts {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	// Account API
	accountAPIURL := strings.TrimRight(getEnv("ACCOUNT_API_URL", "http://localhost:5000"), "/")
	accountAPITimeout := getDuration("ACCOUNT_API_TIMEOUT", 10*time.Second)

	// Login flow
	submitDelay := getDuration("LOGIN_SUBMIT_DELAY", 400*time.Millisecond)
	postLoginRoute := getEnv("POST_LOGIN_ROUTE", "/stakeholders")
	toastDuration := getDuration("TOAST_DURATION", 4*time.Second)
	toastIdle := getDuration("TOAST_IDLE", 10*time.Minute)

	// Sessions
	sessionStore := getEnv("SESSION_STORE", "memory")
	redisURL := getEnv("REDIS_URL", "redis://localhost:6379/0")
	sessionTTL := getDuration("SESSION_TTL", 24*time.Hour)
	sessionSweep := getDuration("SESSION_SWEEP_INTERVAL", time.Minute)
	cookieSecure := getBool("COOKIE_SECURE", true)

	// Verification dialogs opened over HTTP
	dialogTTL := getDuration("DIALOG_TTL", 30*time.Minute)

	// Database, used by cmd/migrate
	database := DatabaseConfig{
		User:     os.Getenv("POSTGRES_USERNAME"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		Host:     getEnv("POSTGRES_HOST", "localhost"),
		Port:     getEnv("POSTGRES_PORT", "5432"),
		Database: os.Getenv("POSTGRES_DATABASE"),
	}

	return &Config{
		LogLevel:  logLevel,
		LogFormat: logFormat,

		Address:        addr,
		AllowedOrigins: origins,

		AccountAPIURL:     accountAPIURL,
		AccountAPITimeout: accountAPITimeout,

		LoginSubmitDelay: submitDelay,
		PostLoginRoute:   postLoginRoute,
		ToastDuration:    toastDuration,
		ToastIdle:        toastIdle,

		SessionStore:         sessionStore,
		RedisURL:             redisURL,
		SessionTTL:           sessionTTL,
		SessionSweepInterval: sessionSweep,
		CookieSecure:         cookieSecure,

		DialogTTL: dialogTTL,

		Database: database,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
			return d
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if raw := os.Getenv(key); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	}
	return fallback
}
