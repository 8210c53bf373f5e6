package server

import (
	"strings"
	"time"

	"pico-editor/internal/content"
	"pico-editor/internal/session"
)

// Config is everything the editor reads from the environment.
type Config struct {
	Addr       string
	BaseURL    string
	AdminURL   string
	RewriteURL bool

	ContentDir string
	ContentExt string
	Storage    string // fs or s3
	S3         content.S3Config

	Password      string // SHA-512 hex or bcrypt
	SessionSecret string
	SessionTTL    time.Duration
	SessionStore  string // memory or postgres
	DatabaseURL   string
	CookieSecure  bool

	LogLevel  string
	LogFormat string

	LoginMaxAttempts int
	RateLimit        int // requests per minute per client on editor routes
	MaxBodyBytes     int64
	Metrics          bool
	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP.
	// Only enable behind a proxy that overwrites those headers.
	TrustProxy bool
}

const (
	defaultAdminURL     = "admin"
	defaultRateLimit    = 120
	defaultMaxBodyBytes = 8 << 20
)

// LoadConfig reads PE_* variables through getenv and validates them.
func LoadConfig(getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}
	v := NewConfigValidator()

	cfg := Config{
		Addr:       env("PE_ADDR", ":8080"),
		BaseURL:    strings.TrimRight(env("PE_BASE_URL", ""), "/"),
		AdminURL:   strings.Trim(env("PE_ADMIN_URL", defaultAdminURL), "/"),
		RewriteURL: v.Bool("PE_REWRITE_URL", getenv("PE_REWRITE_URL"), false),

		ContentDir: env("PE_CONTENT_DIR", "./content"),
		ContentExt: env("PE_CONTENT_EXT", content.DefaultExt),
		Storage:    env("PE_STORAGE", "fs"),
		S3: content.S3Config{
			Endpoint:  env("PE_S3_ENDPOINT", ""),
			AccessKey: env("PE_S3_ACCESS_KEY", ""),
			SecretKey: env("PE_S3_SECRET_KEY", ""),
			Bucket:    env("PE_BUCKET", ""),
			Prefix:    env("PE_S3_PREFIX", ""),
		},

		Password:      env("PE_PASSWORD", ""),
		SessionSecret: getenv("PE_SESSION_SECRET"),
		SessionTTL:    v.Duration("PE_SESSION_TTL", getenv("PE_SESSION_TTL"), session.DefaultTTL),
		SessionStore:  env("PE_SESSION_STORE", "memory"),
		DatabaseURL:   env("DATABASE_URL", ""),
		CookieSecure:  v.Bool("PE_COOKIE_SECURE", getenv("PE_COOKIE_SECURE"), true),

		LogLevel:  env("PE_LOG_LEVEL", "info"),
		LogFormat: env("PE_LOG_FORMAT", "console"),

		LoginMaxAttempts: v.PositiveInt("PE_LOGIN_MAX_ATTEMPTS", getenv("PE_LOGIN_MAX_ATTEMPTS"), 5),
		RateLimit:        v.PositiveInt("PE_RATE_LIMIT", getenv("PE_RATE_LIMIT"), defaultRateLimit),
		MaxBodyBytes:     int64(v.PositiveInt("PE_MAX_BODY_BYTES", getenv("PE_MAX_BODY_BYTES"), defaultMaxBodyBytes)),
		Metrics:          v.Bool("PE_METRICS", getenv("PE_METRICS"), true),
		TrustProxy:       v.Bool("PE_TRUST_PROXY", getenv("PE_TRUST_PROXY"), false),
	}

	v.ValidateAddr("PE_ADDR", cfg.Addr)
	v.ValidateURL("PE_BASE_URL", cfg.BaseURL)
	if cfg.AdminURL == "" || strings.ContainsAny(cfg.AdminURL, "?#& ") {
		v.AddError("PE_ADMIN_URL", "must be a non-empty path without query characters")
	}
	if !strings.HasPrefix(cfg.ContentExt, ".") || len(cfg.ContentExt) < 2 || strings.ContainsAny(cfg.ContentExt, `/\`) {
		v.AddError("PE_CONTENT_EXT", "must start with a dot, e.g. .md")
	}

	v.ValidateRequired("PE_SESSION_SECRET", cfg.SessionSecret)
	v.ValidateMinLength("PE_SESSION_SECRET", cfg.SessionSecret, 32)
	v.ValidatePasswordHash("PE_PASSWORD", cfg.Password)

	v.ValidateEnum("PE_SESSION_STORE", cfg.SessionStore, []string{"memory", "postgres"})
	if cfg.SessionStore == "postgres" {
		v.ValidateRequired("DATABASE_URL", cfg.DatabaseURL)
		if cfg.DatabaseURL != "" &&
			!strings.HasPrefix(cfg.DatabaseURL, "postgres://") && !strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
			v.AddError("DATABASE_URL", "must be a valid PostgreSQL connection string")
		}
	}

	v.ValidateEnum("PE_STORAGE", cfg.Storage, []string{"fs", "s3"})
	if cfg.Storage == "s3" {
		v.ValidateRequired("PE_S3_ENDPOINT", cfg.S3.Endpoint)
		v.ValidateRequired("PE_S3_ACCESS_KEY", cfg.S3.AccessKey)
		v.ValidateRequired("PE_S3_SECRET_KEY", cfg.S3.SecretKey)
		v.ValidateRequired("PE_BUCKET", cfg.S3.Bucket)
		if strings.Contains(cfg.S3.Endpoint, "://") {
			v.ValidateURL("PE_S3_ENDPOINT", cfg.S3.Endpoint)
		}
	}

	v.ValidateEnum("PE_LOG_FORMAT", cfg.LogFormat, []string{"console", "json", "pretty"})
	v.ValidateEnum("PE_LOG_LEVEL", cfg.LogLevel, []string{"trace", "debug", "info", "warn", "error"})

	return cfg, v.Err()
}

// LogoutPrefix is what goes between the base URL and the admin path: "/"
// with URL rewriting, "/?" without.
func (c Config) LogoutPrefix() string {
	if c.RewriteURL {
		return "/"
	}
	return "/?"
}

// EntryURL is the public address of the admin entry point.
func (c Config) EntryURL() string {
	return c.BaseURL + c.LogoutPrefix() + c.AdminURL
}
