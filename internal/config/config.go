// Package config loads the upload server's configuration from environment
// variables and validates it on startup so misconfiguration fails fast.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Archive  ArchiveConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// RequestTimeout bounds a single request, including archival and
	// service record writes.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s"`
}

// DatabaseConfig holds service record database settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. DB_URL is accepted as a fallback.
	URL             string        `env:"DATABASE_URL"`
	MaxConns        int           `env:"DB_MAX_CONNS" envDefault:"20"`
	MinConns        int           `env:"DB_MIN_CONNS" envDefault:"4"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`

	// Migrate creates the service record tables on startup.
	Migrate bool `env:"DB_MIGRATE" envDefault:"true"`
}

// UploadConfig holds stats upload processing settings.
type UploadConfig struct {
	// MaxFileSize is the largest accepted request body in bytes (default: 16MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" envDefault:"16777216"`

	// MaxDecompressedSize caps the inflated container in bytes (default: 8MB)
	MaxDecompressedSize int64 `env:"UPLOAD_MAX_DECOMPRESSED_SIZE" envDefault:"8388608"`

	MaxConcurrent int           `env:"UPLOAD_MAX_CONCURRENT" envDefault:"5"`
	MaxWaitTime   time.Duration `env:"UPLOAD_MAX_WAIT_TIME" envDefault:"30s"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RequestsPerMinute int  `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" envDefault:"100"`

	// UploadLimit is requests per minute for the upload_server endpoints.
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" envDefault:"30"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Real-IP / X-Forwarded-For headers are honoured.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	EnableCSP      bool     `env:"SECURITY_ENABLE_CSP" envDefault:"true"`

	// RequireAPIKey guards the operator endpoints (/status, /api/*) with an
	// X-API-Key header. Game client upload routes are never guarded.
	RequireAPIKey bool     `env:"SECURITY_REQUIRE_API_KEY" envDefault:"false"`
	APIKeys       []string `env:"SECURITY_API_KEYS" envSeparator:","`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// Archive backends.
const (
	ArchiveDisk = "disk"
	ArchiveS3   = "s3"
)

// ArchiveConfig holds raw upload archival settings.
type ArchiveConfig struct {
	Backend string `env:"ARCHIVE_BACKEND" envDefault:"disk"`

	// Dir is the disk backend root (default: ./uploads)
	Dir string `env:"ARCHIVE_DIR" envDefault:"uploads"`

	S3Bucket string `env:"ARCHIVE_S3_BUCKET"`
	S3Region string `env:"ARCHIVE_S3_REGION" envDefault:"us-east-1"`
	S3Prefix string `env:"ARCHIVE_S3_PREFIX"`

	// RetentionDays expires disk archives older than this; 0 keeps them forever.
	RetentionDays int           `env:"ARCHIVE_RETENTION_DAYS" envDefault:"0"`
	CheckInterval time.Duration `env:"ARCHIVE_CHECK_INTERVAL" envDefault:"24h"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
