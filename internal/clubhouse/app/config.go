package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aussiebroadwan/clubhouse/internal/clubhouse/service"
)

type Config struct {
	Issuer         string // Issuer claim for session tokens (default: clubhouse)
	BootstrapToken string // Optional: token required to perform bootstrap
	SiteURL        string // Public site URL used in email links (default: http://localhost:8080)
	MobileAPIKey   string // Optional: shared key for the mobile API, disabled when empty
	RootEmail      string // Root member email (default: jafar@jafar.com)
	MFAIssuer      string // Issuer label shown in authenticator apps (default: Clubhouse)

	SponsorApprovalLimit   int           // Approvals per sponsor per window (default: 5)
	SponsorApprovalWindow  time.Duration // Sponsor approval window (default: 24h)
	ExposeVerificationCode bool          // Return the code in the create response (default: on unless ENV=prod)

	DatabaseFile   string // Path to SQLite database file (default: ./clubhouse.db)
	PepperFile     string // Path to the password pepper file (default: ./pepper)
	SigningKeyFile string // Path to the Ed25519 session key (default: ./session.key)
	MasterKeyFile  string // Optional: seals the session key on disk when set

	RateLimitBackend string // memory or redis (default: memory)
	RedisAddr        string // Redis address when RateLimitBackend is redis
	RedisPassword    string // Optional Redis password

	BlobBackend   string // local or gcs (default: local)
	UploadDir     string // Directory for local uploads (default: ./uploads)
	GCSBucket     string // Bucket for logos when BlobBackend is gcs
	GCSPublicURL  string // Optional public URL prefix for the bucket
	GCSCredsFile  string // Optional service account JSON file
	SendGridKey   string // Optional: SendGrid API key, emails are only logged when empty
	MailFrom      string // Sender address (default: no-reply@clubhouse.local)
	MailFromName  string // Sender display name (default: Clubhouse)
	Env           string // Environment (dev, staging, prod) (default: dev)
	LogLevel      string // Log level (debug, info, warn, error) (default: info)
	LogFormat     string // Log format (json, text) (default: json)
	Port          int    // HTTP server port (default: 8080)
	Housekeeping  string // Cron schedule for housekeeping, seconds field first
	ShutdownGrace time.Duration
}

// LoadConfig reads the configuration. A .env file in the working directory
// is loaded first, then the optional YAML file named by
// CLUBHOUSE_CONFIG_FILE supplies defaults. Environment variables win.
func LoadConfig() (Config, error) {
	// Missing .env is normal outside development
	_ = godotenv.Load()

	env, err := loadEnv(os.Getenv("CLUBHOUSE_CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Issuer:         env.getOrDefault("ISSUER", "clubhouse"),
		BootstrapToken: env.get("BOOTSTRAP_TOKEN"),
		SiteURL:        env.getOrDefault("SITE_URL", "http://localhost:8080"),
		MobileAPIKey:   env.get("MOBILE_API_KEY"),
		RootEmail:      env.getOrDefault("ROOT_MEMBER_EMAIL", "jafar@jafar.com"),
		MFAIssuer:      env.getOrDefault("MFA_ISSUER", "Clubhouse"),

		SponsorApprovalLimit:  env.getIntOrDefault("SPONSOR_APPROVAL_LIMIT", service.DefaultSponsorApprovalLimit),
		SponsorApprovalWindow: env.getDurationOrDefault("SPONSOR_APPROVAL_WINDOW", service.DefaultSponsorApprovalWindow),

		DatabaseFile:   env.getOrDefault("DATABASE_FILE", "clubhouse.db"),
		PepperFile:     env.getOrDefault("PEPPER_FILE", "pepper"),
		SigningKeyFile: env.getOrDefault("SIGNING_KEY_FILE", "session.key"),
		MasterKeyFile:  env.get("MASTER_KEY_FILE"),

		RateLimitBackend: strings.ToLower(env.getOrDefault("RATELIMIT_BACKEND", "memory")),
		RedisAddr:        env.get("REDIS_ADDR"),
		RedisPassword:    env.get("REDIS_PASSWORD"),

		BlobBackend:  strings.ToLower(env.getOrDefault("BLOB_BACKEND", "local")),
		UploadDir:    env.getOrDefault("UPLOAD_DIR", "uploads"),
		GCSBucket:    env.get("GCS_BUCKET"),
		GCSPublicURL: env.get("GCS_PUBLIC_URL"),
		GCSCredsFile: env.get("GCS_CREDENTIALS_FILE"),
		SendGridKey:  env.get("SENDGRID_API_KEY"),
		MailFrom:     env.getOrDefault("MAIL_FROM", "no-reply@clubhouse.local"),
		MailFromName: env.getOrDefault("MAIL_FROM_NAME", "Clubhouse"),

		Env:           env.getOrDefault("ENV", "dev"),
		LogLevel:      env.getOrDefault("LOG_LEVEL", "info"),
		LogFormat:     env.getOrDefault("LOG_FORMAT", "json"),
		Port:          env.getIntOrDefault("PORT", 8080),
		Housekeeping:  env.getOrDefault("HOUSEKEEPING_SCHEDULE", service.DefaultHousekeepingSchedule),
		ShutdownGrace: env.getDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
	cfg.ExposeVerificationCode = env.getBoolOrDefault("EXPOSE_VERIFICATION_CODE", !cfg.IsProd())

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProd() bool {
	return strings.EqualFold(c.Env, "prod")
}

func (c Config) validate() error {
	var errs []error
	switch c.RateLimitBackend {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when RATELIMIT_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown RATELIMIT_BACKEND %q", c.RateLimitBackend))
	}
	switch c.BlobBackend {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			errs = append(errs, errors.New("GCS_BUCKET is required when BLOB_BACKEND=gcs"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown BLOB_BACKEND %q", c.BlobBackend))
	}
	if c.SponsorApprovalLimit < 1 {
		errs = append(errs, errors.New("SPONSOR_APPROVAL_LIMIT must be at least 1"))
	}
	if c.SponsorApprovalWindow <= 0 {
		errs = append(errs, errors.New("SPONSOR_APPROVAL_WINDOW must be positive"))
	}
	return errors.Join(errs...)
}

// env resolves a key from the process environment, falling back to the
// values read from the YAML config file.
type env struct {
	file map[string]string
}

func loadEnv(path string) (env, error) {
	e := env{file: map[string]string{}}
	if path == "" {
		return e, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return e, fmt.Errorf("read config file: %w", err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return e, fmt.Errorf("parse config file %s: %w", path, err)
	}
	for k, v := range values {
		if v == nil {
			continue
		}
		e.file[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return e, nil
}

func (e env) get(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return e.file[key]
}

func (e env) getOrDefault(key, defaultValue string) string {
	if value := e.get(key); value != "" {
		return value
	}
	return defaultValue
}

func (e env) getIntOrDefault(key string, defaultValue int) int {
	value := e.get(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func (e env) getBoolOrDefault(key string, defaultValue bool) bool {
	value := e.get(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func (e env) getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := e.get(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
