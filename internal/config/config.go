package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/swooby/swoo.by/internal/domain"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline (ex: 5s)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Redirect table
	RedirectFile    string              // local path or s3://bucket/key, ".gz" is decompressed
	StrictRedirects bool                // true => duplicate trigger paths abort startup
	RedirectMode    domain.RedirectMode // direct (307) or tracked (200 + beacon)
	AnalyticsID     string              // analytics measurement id, required in tracked mode
	AWSRegion       string              // optional, region for s3:// tables

	// Geo annotation
	GeoAPIURL   string        // ip-api compatible base URL, empty disables the online lookup
	GeoTimeout  time.Duration // per-lookup timeout (ex: 2s)
	GeoCacheTTL time.Duration // whole-cache epoch (ex: 23h)
	GeoMMDBPath string        // optional local city database, consulted before the API

	// Redis (optional shared geo cache, disabled when RedisAddr is empty)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	RedisPasswordRequired bool // true => RedisPassword must be set when Redis is enabled

	// Access restrictions
	AllowedHosts []string // optional, restrict the gateway to specific Host headers
	AllowedCIDRS []string // optional, restrict /healthz, /readyz and /infra to these IPs/CIDRs
	TrustProxy   bool     // true => rate limiter and CIDR checks trust forwarding headers

	// Rate limiting (per client IP, token bucket)
	RateLimitBurst  int // bucket size
	RateLimitPerMin int // refill per minute
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SWOOBY_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SWOOBY_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("SWOOBY_REQUEST_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("SWOOBY_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SWOOBY_PRETTY_LOG", false),

		// Redirect table
		RedirectFile:    requireEnv("SWOOBY_REDIRECT_FILE"),
		StrictRedirects: mustBool("SWOOBY_STRICT_REDIRECTS", true),
		RedirectMode:    mustMode("SWOOBY_REDIRECT_MODE"),
		AnalyticsID:     getenv("SWOOBY_ANALYTICS_ID", ""),
		AWSRegion:       getenv("SWOOBY_AWS_REGION", ""),

		// Geo
		GeoAPIURL:   getenv("SWOOBY_GEO_API_URL", "http://ip-api.com/json/"),
		GeoTimeout:  mustDuration("SWOOBY_GEO_TIMEOUT", 2*time.Second),
		GeoCacheTTL: mustDuration("SWOOBY_GEO_CACHE_TTL", 23*time.Hour),
		GeoMMDBPath: getenv("SWOOBY_GEO_MMDB", ""),

		// Redis settings
		RedisAddr:           getenv("SWOOBY_REDIS_ADDR", ""),
		RedisUser:           getenv("SWOOBY_REDIS_USERNAME", ""),
		RedisPassword:       getenv("SWOOBY_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("SWOOBY_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		RedisPasswordRequired: mustBool("SWOOBY_REDIS_PASSWORD_REQUIRED", false),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("SWOOBY_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("SWOOBY_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("SWOOBY_TRUST_PROXY", true),

		RateLimitBurst:  getenvInt("SWOOBY_RATE_LIMIT_BURST", 60),
		RateLimitPerMin: getenvInt("SWOOBY_RATE_LIMIT_PER_MIN", 120),
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.RedirectMode == domain.ModeTracked && c.AnalyticsID == "" {
		return fmt.Errorf("SWOOBY_ANALYTICS_ID is required when SWOOBY_REDIRECT_MODE=tracked")
	}
	if c.RedisEnabled() && c.RedisPasswordRequired && c.RedisPassword == "" {
		return fmt.Errorf("SWOOBY_REDIS_PASSWORD is required when SWOOBY_REDIS_PASSWORD_REQUIRED=true")
	}
	if c.GeoTimeout <= 0 {
		return fmt.Errorf("SWOOBY_GEO_TIMEOUT must be > 0, got %v", c.GeoTimeout)
	}
	if c.GeoCacheTTL <= 0 {
		return fmt.Errorf("SWOOBY_GEO_CACHE_TTL must be > 0, got %v", c.GeoCacheTTL)
	}
	if c.RequestTimeout > 0 && c.GeoTimeout >= c.RequestTimeout {
		return fmt.Errorf("SWOOBY_GEO_TIMEOUT (%v) must be shorter than SWOOBY_REQUEST_TIMEOUT (%v)",
			c.GeoTimeout, c.RequestTimeout)
	}
	return nil
}

// RedisEnabled reports whether the shared geo cache is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// mustMode panics on an unknown mode instead of falling back to direct.
func mustMode(key string) domain.RedirectMode {
	m, err := domain.ParseRedirectMode(os.Getenv(key))
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid %s: %v", key, err))
	}
	return m
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
