package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is used when no API origin is configured.
	DefaultBaseURL = "http://localhost:3000"
	// DefaultAPIPrefix is the path every OneFlow endpoint lives under.
	DefaultAPIPrefix = "/oneflow/api/v1"
)

// ErrInvalidBaseURL reports a base URL that cannot be parsed into an absolute http(s) origin.
var ErrInvalidBaseURL = errors.New("invalid api base url")

// Session backends understood by session.Open.
const (
	SessionBackendFile     = "file"
	SessionBackendRedis    = "redis"
	SessionBackendSQLite   = "sqlite"
	SessionBackendPostgres = "postgres"
	SessionBackendMemory   = "memory"
)

// ClientConfig holds runtime configuration for the OneFlow API client and CLI.
type ClientConfig struct {
	BaseURL   string
	APIPrefix string
	Timeout   time.Duration
	UserAgent string
	Session   SessionConfig
	Log       LogConfig
}

// SessionConfig selects and configures the durable session backend.
type SessionConfig struct {
	Backend       string
	Path          string
	EncryptionKey string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseURL   string
	TTL           time.Duration
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// DefaultClientConfig returns the built-in defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:   DefaultBaseURL,
		APIPrefix: DefaultAPIPrefix,
		Timeout:   15 * time.Second,
		UserAgent: "oneflow-cli",
		Session: SessionConfig{
			Backend:   SessionBackendFile,
			RedisAddr: "localhost:6379",
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// LoadClientConfig constructs a ClientConfig from defaults and environment variables.
func LoadClientConfig() ClientConfig {
	return applyEnv(DefaultClientConfig()).normalized()
}

// Load layers defaults, the YAML settings file at path and the environment, in
// increasing precedence. An empty path means DefaultFilePath and tolerates a
// missing file.
func Load(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()
	file, err := LoadFile(path)
	if err != nil {
		return ClientConfig{}, err
	}
	cfg = file.apply(cfg)
	cfg = applyEnv(cfg).normalized()
	if err := cfg.Validate(); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

func applyEnv(cfg ClientConfig) ClientConfig {
	cfg.BaseURL = GetString("API_BASE_URL", cfg.BaseURL)
	cfg.APIPrefix = GetString("API_PREFIX", cfg.APIPrefix)
	cfg.Timeout = GetDuration("HTTP_TIMEOUT_SECONDS", time.Second, cfg.Timeout)
	cfg.UserAgent = GetString("USER_AGENT", cfg.UserAgent)
	cfg.Session.Backend = GetString("SESSION_BACKEND", cfg.Session.Backend)
	cfg.Session.Path = GetString("SESSION_PATH", cfg.Session.Path)
	cfg.Session.EncryptionKey = GetString("SESSION_KEY", cfg.Session.EncryptionKey)
	cfg.Session.RedisAddr = GetString("REDIS_ADDR", cfg.Session.RedisAddr)
	cfg.Session.RedisPassword = GetString("REDIS_PASSWORD", cfg.Session.RedisPassword)
	cfg.Session.RedisDB = GetInt("REDIS_DB", cfg.Session.RedisDB)
	cfg.Session.DatabaseURL = GetString("SESSION_DATABASE_URL", cfg.Session.DatabaseURL)
	cfg.Session.TTL = GetDuration("SESSION_TTL_HOURS", time.Hour, cfg.Session.TTL)
	cfg.Log.Level = GetString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = GetString("LOG_FORMAT", cfg.Log.Format)
	return cfg
}

func (c ClientConfig) normalized() ClientConfig {
	c.BaseURL = NormalizeBaseURL(c.BaseURL)
	c.APIPrefix = NormalizePrefix(c.APIPrefix)
	if c.APIPrefix == "" {
		c.APIPrefix = DefaultAPIPrefix
	}
	c.Session.Backend = strings.ToLower(strings.TrimSpace(c.Session.Backend))
	if c.Session.Backend == "" {
		c.Session.Backend = SessionBackendFile
	}
	if c.Timeout < 0 {
		c.Timeout = 0
	}
	return c
}

// Validate checks that the base URL is usable and the session backend is known.
func (c ClientConfig) Validate() error {
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL)
	}
	switch c.Session.Backend {
	case SessionBackendFile, SessionBackendRedis, SessionBackendSQLite, SessionBackendPostgres, SessionBackendMemory:
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	return nil
}

// Endpoint returns the base URL joined with the API prefix.
func (c ClientConfig) Endpoint() string {
	return NormalizeBaseURL(c.BaseURL) + NormalizePrefix(c.APIPrefix)
}

// NormalizeBaseURL trims whitespace and trailing slashes and adds an http
// scheme when none is present. An empty value yields DefaultBaseURL.
func NormalizeBaseURL(raw string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return DefaultBaseURL
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	return trimmed
}

// NormalizePrefix returns the prefix with exactly one leading slash and no
// trailing slash. A prefix made only of slashes collapses to "". Load turns
// that into DefaultAPIPrefix; only an explicit --prefix "" on the CLI sends
// requests straight to the base URL.
func NormalizePrefix(raw string) string {
	trimmed := strings.Trim(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return ""
	}
	return "/" + trimmed
}
