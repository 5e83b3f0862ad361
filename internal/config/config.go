// Package config loads the extractor's settings from environment variables.
// Every field has a default except where marked required; Load validates the
// whole configuration and reports every problem at once.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Session  SessionConfig
	Job      JobConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 5000)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"5000"`

	// ReadTimeout is the maximum duration for reading a request, uploads included (default: 10m)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"10m"`

	// WriteTimeout is the maximum duration for writing a response (default: 0 for SSE)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including the wait for a running job (default: 2m)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"2m"`

	// RequestTimeout is the middleware timeout for non-streaming requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds settings for the spreadsheets users upload.
type UploadConfig struct {
	// Dir is where session directories are created (default: uploads)
	Dir string `env:"UPLOAD_DIR" envAlt:"UPLOAD_FOLDER" default:"uploads"`

	// MaxFileSize is the maximum size of one request, both files included.
	// Accepts plain bytes or a unit suffix: 512MiB, 1GiB, 100MB (default: 1GiB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"1GiB" size:"true"`

	// MaxConcurrent bounds how many uploads are received at once (default: 2)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"2"`

	// MaxWait is how long an upload waits for a free slot (default: 5s)
	MaxWait time.Duration `env:"UPLOAD_MAX_WAIT" default:"5s"`
}

// SessionConfig controls how long job files are kept.
type SessionConfig struct {
	// TTL is how long a finished job's files are kept; 0 keeps them forever (default: 24h)
	TTL time.Duration `env:"SESSION_TTL" default:"24h"`

	// SweepInterval is how often expired sessions are removed (default: 1h)
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" default:"1h"`
}

// JobConfig holds extraction job settings.
type JobConfig struct {
	// ProgressPollInterval is how often the progress stream emits an update (default: 500ms)
	ProgressPollInterval time.Duration `env:"JOB_PROGRESS_POLL_INTERVAL" default:"500ms"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`

	// UploadLimit is requests per minute for job submission (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Forwarded-For / X-Real-IP headers are honoured
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects the /api routes with an X-API-Key header (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
