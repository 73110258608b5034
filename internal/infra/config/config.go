package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	HTTPClient HTTPClientConfig `mapstructure:"http_client"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Auth       AuthConfig       `mapstructure:"auth"`
	AIBackend  AIBackendConfig  `mapstructure:"ai_backend"`
	ModelRun   ModelRunConfig   `mapstructure:"model_run"`
	Billing    BillingConfig    `mapstructure:"billing"`
	Paystack   PaystackConfig   `mapstructure:"paystack"`
	Stripe     StripeConfig     `mapstructure:"stripe"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Log        LogConfig        `mapstructure:"log"`
	Features   FeaturesConfig   `mapstructure:"features"`
}

// FeaturesConfig holds deployment-wide switches.
type FeaturesConfig struct {
	// Production hides internal error text and marks cookies Secure.
	Production bool `mapstructure:"production"`
	// MetricsEnabled exposes /metrics.
	MetricsEnabled bool `mapstructure:"metrics_enabled"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowOrigins    []string      `mapstructure:"allow_origins"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	Path            string        `mapstructure:"path"` // sqlite file, ":memory:" allowed
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DSN returns the postgres connection string.
func (c *DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Database, c.SSLMode,
	)
	if c.Password != "" {
		dsn += fmt.Sprintf(" password=%s", c.Password)
	}
	return dsn
}

// RedisConfig holds Redis configuration. An empty address disables Redis.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// HTTPClientConfig holds HTTP client configuration for connection pooling.
type HTTPClientConfig struct {
	MaxIdleConns        int           `mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host"`
	MaxConnsPerHost     int           `mapstructure:"max_conns_per_host"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout"`

	DialTimeout         time.Duration `mapstructure:"dial_timeout"`
	TLSHandshakeTimeout time.Duration `mapstructure:"tls_handshake_timeout"`
	// ResponseTimeout bounds a whole exchange; image generation is slow.
	ResponseTimeout time.Duration `mapstructure:"response_timeout"`

	KeepAlive time.Duration `mapstructure:"keep_alive"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// GlobalLimit is the rate limit per IP per window.
	GlobalLimit  int           `mapstructure:"global_limit"`
	GlobalWindow time.Duration `mapstructure:"global_window"`
	// GenerationLimit is the rate limit per account on the image endpoints.
	GenerationLimit  int           `mapstructure:"generation_limit"`
	GenerationWindow time.Duration `mapstructure:"generation_window"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret   string        `mapstructure:"jwt_secret"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
	BcryptCost  int           `mapstructure:"bcrypt_cost"`
	AdminEmails []string      `mapstructure:"admin_emails"`
}

// AIBackendConfig configures the self-hosted image backend.
type AIBackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Secret  string `mapstructure:"secret"`
	// AutoUpscale enables follow-up upscales of enhanced images.
	AutoUpscale bool          `mapstructure:"auto_upscale"`
	Upscale     UpscaleConfig `mapstructure:"upscale"`
	Breaker     BreakerConfig `mapstructure:"breaker"`
}

// UpscaleConfig holds the auto-upscale thresholds.
type UpscaleConfig struct {
	MaxAttempts int `mapstructure:"max_attempts"`
	// TargetMinDimension is the smallest side, in pixels, considered large enough.
	TargetMinDimension int `mapstructure:"target_min_dimension"`
	// TargetBytes is the decoded size considered large enough.
	TargetBytes int64 `mapstructure:"target_bytes"`
	// MaxMinDimension stops upscaling regardless of size.
	MaxMinDimension int `mapstructure:"max_min_dimension"`
}

// BreakerConfig holds circuit breaker settings for an external backend.
type BreakerConfig struct {
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	Timeout          time.Duration `mapstructure:"timeout"`
	Interval         time.Duration `mapstructure:"interval"`
}

// ModelRunConfig configures the hosted model provider used for style transfers.
type ModelRunConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Token         string        `mapstructure:"token"`
	StandardModel string        `mapstructure:"standard_model"`
	ProModel      string        `mapstructure:"pro_model"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	Breaker       BreakerConfig `mapstructure:"breaker"`
}

// BillingConfig holds credit pack checkout configuration.
type BillingConfig struct {
	// Provider is "paystack" or "stripe".
	Provider string `mapstructure:"provider"`
	AppURL   string `mapstructure:"app_url"`
	Currency string `mapstructure:"currency"`
}

// PaystackConfig holds Paystack configuration.
type PaystackConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	SecretKey string `mapstructure:"secret_key"`
}

// StripeConfig holds Stripe payment configuration.
type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

// StorageConfig holds object storage configuration. An empty bucket keeps
// generated images inline.
type StorageConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
	Prefix          string `mapstructure:"prefix"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/studio")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("STUDIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)
	normalize(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads secrets that must never live in the config file.
// Unprefixed names are accepted for deployments that predate the prefix.
func applyEnvOverrides(cfg *Config) {
	if s := firstEnv("STUDIO_JWT_SECRET", "JWT_SECRET"); s != "" {
		cfg.Auth.JWTSecret = s
	}
	if s := firstEnv("STUDIO_DB_PASSWORD"); s != "" {
		cfg.Database.Password = s
	}
	if s := firstEnv("STUDIO_REDIS_PASSWORD"); s != "" {
		cfg.Redis.Password = s
	}
	if s := firstEnv("STUDIO_AI_BACKEND_URL", "AI_BACKEND_URL"); s != "" {
		cfg.AIBackend.BaseURL = s
	}
	if s := firstEnv("STUDIO_AI_BACKEND_SECRET", "AI_BACKEND_SECRET"); s != "" {
		cfg.AIBackend.Secret = s
	}
	if s := firstEnv("STUDIO_AI_AUTO_UPSCALE", "AI_AUTO_UPSCALE"); s != "" {
		cfg.AIBackend.AutoUpscale = s == "1" || strings.EqualFold(s, "true")
	}
	if s := firstEnv("STUDIO_MODEL_RUN_TOKEN", "REPLICATE_API_TOKEN"); s != "" {
		cfg.ModelRun.Token = s
	}
	if s := firstEnv("STUDIO_PAYSTACK_SECRET_KEY", "PAYSTACK_SECRET_KEY"); s != "" {
		cfg.Paystack.SecretKey = s
	}
	if s := firstEnv("STUDIO_STRIPE_SECRET_KEY"); s != "" {
		cfg.Stripe.SecretKey = s
	}
	if s := firstEnv("STUDIO_STORAGE_SECRET_KEY"); s != "" {
		cfg.Storage.SecretAccessKey = s
	}
	if s := firstEnv("STUDIO_APP_URL", "APP_URL"); s != "" {
		cfg.Billing.AppURL = s
	}
	if s := firstEnv("STUDIO_ADMIN_EMAILS", "ADMIN_EMAILS"); s != "" {
		cfg.Auth.AdminEmails = ParseList(s)
	}
}

func normalize(cfg *Config) {
	emails := make([]string, 0, len(cfg.Auth.AdminEmails))
	for _, e := range cfg.Auth.AdminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			emails = append(emails, e)
		}
	}
	cfg.Auth.AdminEmails = emails
	cfg.Billing.AppURL = strings.TrimRight(cfg.Billing.AppURL, "/")
	cfg.AIBackend.BaseURL = strings.TrimRight(cfg.AIBackend.BaseURL, "/")
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// ParseList splits a comma-separated list, dropping blanks.
func ParseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 5*time.Minute)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.allow_origins", []string{"http://localhost:3000"})

	// Database defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.database", "studio")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.path", "studio.db")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)

	// Redis defaults
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.db", 0)

	// HTTP client defaults
	v.SetDefault("http_client.max_idle_conns", 100)
	v.SetDefault("http_client.max_idle_conns_per_host", 20)
	v.SetDefault("http_client.max_conns_per_host", 50)
	v.SetDefault("http_client.idle_conn_timeout", 90*time.Second)
	v.SetDefault("http_client.dial_timeout", 10*time.Second)
	v.SetDefault("http_client.tls_handshake_timeout", 10*time.Second)
	v.SetDefault("http_client.response_timeout", 3*time.Minute)
	v.SetDefault("http_client.keep_alive", 30*time.Second)

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.global_limit", 300)
	v.SetDefault("rate_limit.global_window", time.Minute)
	v.SetDefault("rate_limit.generation_limit", 20)
	v.SetDefault("rate_limit.generation_window", time.Minute)

	// Auth defaults
	v.SetDefault("auth.token_expiry", 30*24*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 12)

	// AI backend defaults
	v.SetDefault("ai_backend.base_url", "http://127.0.0.1:5001")
	v.SetDefault("ai_backend.auto_upscale", false)
	v.SetDefault("ai_backend.upscale.max_attempts", 3)
	v.SetDefault("ai_backend.upscale.target_min_dimension", 2048)
	v.SetDefault("ai_backend.upscale.target_bytes", 2_000_000)
	v.SetDefault("ai_backend.upscale.max_min_dimension", 4096)
	v.SetDefault("ai_backend.breaker.failure_threshold", 5)
	v.SetDefault("ai_backend.breaker.timeout", 30*time.Second)
	v.SetDefault("ai_backend.breaker.interval", time.Minute)

	// Model run defaults
	v.SetDefault("model_run.base_url", "https://api.replicate.com")
	v.SetDefault("model_run.standard_model", "google/nano-banana")
	v.SetDefault("model_run.pro_model", "google/nano-banana-pro")
	v.SetDefault("model_run.poll_interval", 2*time.Second)
	v.SetDefault("model_run.breaker.failure_threshold", 5)
	v.SetDefault("model_run.breaker.timeout", 30*time.Second)
	v.SetDefault("model_run.breaker.interval", time.Minute)

	// Billing defaults
	v.SetDefault("billing.provider", "paystack")
	v.SetDefault("billing.app_url", "http://localhost:3000")
	v.SetDefault("billing.currency", "NGN")
	v.SetDefault("paystack.base_url", "https://api.paystack.co")

	// Storage defaults
	v.SetDefault("storage.region", "auto")
	v.SetDefault("storage.prefix", "generated")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Feature defaults
	v.SetDefault("features.production", false)
	v.SetDefault("features.metrics_enabled", true)
}
