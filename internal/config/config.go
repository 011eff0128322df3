package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"modportal/internal/validation"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env      string // "development", "production", etc.
	LogLevel string

	// Server
	ServerAddr string
	BaseURL    string

	// Database
	DatabaseURL string

	// Redis (sessions, limiter, request sequencing). Empty keeps everything in memory.
	RedisURL string

	// TLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string

	// Remote community API
	APIBaseURL        string        // REST root, e.g. "https://community.example.com"
	GraphQLURL        string        // GraphQL endpoint
	UploadURL         string        // binary upload endpoint
	PublicFileBaseURL string        // prefix for public download URLs built from storage keys
	RemoteTimeout     time.Duration // 0 keeps the transport default
	ServiceToken      string        // bearer token used by background jobs

	// OIDC
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
	OIDCRoleClaim    string // claim mapped to USER/MODERATOR/ADMIN via config.yaml

	// Session
	SessionSecret string // Used for signing cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// S3 uploads. Empty endpoint routes uploads to the remote upload endpoint.
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool

	// Email
	SMTPEnabled  bool
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPTLS      string // none, tls, starttls

	// Jobs
	QueueMonitorInterval time.Duration

	// Site
	SiteTitle string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ServerAddr:  getEnv("SERVER_ADDR", ":3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/modportal?sslmode=disable"),
		RedisURL:    getEnv("REDIS_URL", ""),

		TLSEnabled:  getEnv("TLS_ENABLED", "") != "",
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		APIBaseURL:        getEnv("API_BASE_URL", "http://localhost:8080"),
		GraphQLURL:        getEnv("GRAPHQL_URL", "http://localhost:8080/graphql"),
		UploadURL:         getEnv("UPLOAD_URL", "http://localhost:8080/api/upload"),
		PublicFileBaseURL: getEnv("PUBLIC_FILE_BASE_URL", "http://localhost:8080/files"),
		RemoteTimeout:     getEnvDuration("REMOTE_TIMEOUT", 0),
		ServiceToken:      getEnv("API_SERVICE_TOKEN", ""),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		OIDCRoleClaim:    getEnv("OIDC_ROLE_CLAIM", "roles"),

		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:   getEnv("CORS_ORIGINS", ""),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Bucket:    getEnv("S3_BUCKET", "modportal-uploads"),
		S3UseSSL:    getEnv("S3_USE_SSL", "") != "",

		SMTPEnabled:  getEnv("SMTP_ENABLED", "") != "",
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "modportal"),
		SMTPTLS:      getEnv("SMTP_TLS", "starttls"),

		QueueMonitorInterval: getEnvDuration("QUEUE_MONITOR_INTERVAL", time.Minute),

		SiteTitle: getEnv("SITE_TITLE", "modportal"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsEmailEnabled returns true if SMTP is fully configured.
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPEnabled && c.SMTPHost != "" && c.SMTPFrom != ""
}

// IsS3Enabled returns true if uploads go straight to object storage.
func (c *Config) IsS3Enabled() bool {
	return c.S3Endpoint != ""
}

// IsOIDCEnabled returns true if reviewer login is configured.
func (c *Config) IsOIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

// ValidateURLs checks that every remote endpoint is an absolute http(s) URL.
func (c *Config) ValidateURLs() error {
	endpoints := []struct {
		env, value string
	}{
		{"BASE_URL", c.BaseURL},
		{"API_BASE_URL", c.APIBaseURL},
		{"GRAPHQL_URL", c.GraphQLURL},
		{"UPLOAD_URL", c.UploadURL},
		{"PUBLIC_FILE_BASE_URL", c.PublicFileBaseURL},
	}
	for _, e := range endpoints {
		if ok, msg := validation.ValidateURL(e.value); !ok {
			return fmt.Errorf("%s: %s", e.env, msg)
		}
	}
	return nil
}
