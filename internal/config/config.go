package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is resolved once at process start and passed to constructors
type Config struct {
	// API server
	HTTPAddr    string
	CatalogPath string // empty means the built-in questionnaire

	// Downstream journal store
	StoreBaseURL      string
	StoreTimeout      time.Duration
	StoreMaxAttempts  int // only applied to submissions carrying a submission ID
	StoreRetryBackoff time.Duration

	// Reference store process
	StoreHTTPAddr string
	MongoURI      string
	MongoDB       string

	// Submission dedup; disabled when RedisAddr is empty
	RedisAddr     string
	SubmissionTTL time.Duration

	// Terminal client
	APIBaseURL    string
	SubmitTimeout time.Duration

	CORSAllowedOrigins string
	CORSAllowedMethods string
	CORSAllowedHeaders string

	LogLevel string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", "0.0.0.0:8000")
	v.SetDefault("catalog_path", "")
	v.SetDefault("store_base_url", "http://127.0.0.1:5100")
	v.SetDefault("store_timeout", 10*time.Second)
	v.SetDefault("store_max_attempts", 3)
	v.SetDefault("store_retry_backoff", 500*time.Millisecond)
	v.SetDefault("store_http_addr", "0.0.0.0:5100")
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_db", "lunalog")
	v.SetDefault("redis_addr", "")
	v.SetDefault("submission_ttl", 24*time.Hour)
	v.SetDefault("api_base_url", "http://127.0.0.1:8000")
	v.SetDefault("submit_timeout", 15*time.Second)
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("cors_allowed_methods", "GET, POST, OPTIONS")
	v.SetDefault("cors_allowed_headers", "Content-Type")
	v.SetDefault("log_level", "info")
}

// Load reads lunalog.yaml from the working directory or $HOME/.lunalog when
// present, then applies environment overrides (HTTP_ADDR, STORE_BASE_URL, ...).
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// default locations and tolerates a missing file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("lunalog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.lunalog")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{
		HTTPAddr:           v.GetString("http_addr"),
		CatalogPath:        v.GetString("catalog_path"),
		StoreBaseURL:       strings.TrimRight(v.GetString("store_base_url"), "/"),
		StoreTimeout:       v.GetDuration("store_timeout"),
		StoreMaxAttempts:   v.GetInt("store_max_attempts"),
		StoreRetryBackoff:  v.GetDuration("store_retry_backoff"),
		StoreHTTPAddr:      v.GetString("store_http_addr"),
		MongoURI:           v.GetString("mongo_uri"),
		MongoDB:            v.GetString("mongo_db"),
		RedisAddr:          strings.TrimPrefix(v.GetString("redis_addr"), "redis://"),
		SubmissionTTL:      v.GetDuration("submission_ttl"),
		APIBaseURL:         strings.TrimRight(v.GetString("api_base_url"), "/"),
		SubmitTimeout:      v.GetDuration("submit_timeout"),
		CORSAllowedOrigins: v.GetString("cors_allowed_origins"),
		CORSAllowedMethods: v.GetString("cors_allowed_methods"),
		CORSAllowedHeaders: v.GetString("cors_allowed_headers"),
		LogLevel:           v.GetString("log_level"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the processes cannot start with.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"store_base_url": c.StoreBaseURL,
		"api_base_url":   c.APIBaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: %s %q is not an absolute URL", name, raw)
		}
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("config: store_timeout must be positive")
	}
	if c.SubmitTimeout <= 0 {
		return fmt.Errorf("config: submit_timeout must be positive")
	}
	if c.StoreMaxAttempts < 1 {
		c.StoreMaxAttempts = 1
	}
	return nil
}

// DedupEnabled reports whether submission IDs are guarded through Redis.
func (c *Config) DedupEnabled() bool {
	return c.RedisAddr != ""
}

// PendingClaimTTL bounds how long an in-flight submission ID stays claimed: every
// store attempt with its backoff, plus one more timeout of slack. A claim left
// by a crashed request expires after this instead of after SubmissionTTL.
func (c *Config) PendingClaimTTL() time.Duration {
	attempts := max(c.StoreMaxAttempts, 1)
	backoff := time.Duration(1<<(attempts-1)-1) * c.StoreRetryBackoff
	ttl := time.Duration(attempts+1)*c.StoreTimeout + backoff
	if c.SubmissionTTL > 0 && ttl > c.SubmissionTTL {
		return c.SubmissionTTL
	}
	return ttl
}
