package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds runtime startup configuration loaded from YAML and the environment.
type AppConfig struct {
	Port           int             `yaml:"port"`
	Env            string          `yaml:"env"` // "development" | "production"
	Mongo          MongoConfig     `yaml:"mongo"`
	Redis          RedisConfig     `yaml:"redis"`
	Access         AccessConfig    `yaml:"access"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	Paths          PathsConfig     `yaml:"paths"`
	Log            LogConfig       `yaml:"log"`
	Metrics        MetricsConfig   `yaml:"metrics"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	TrustedProxies []string        `yaml:"trusted_proxies"`
	BodyLimitMB    int             `yaml:"body_limit_mb"`
}

type MongoConfig struct {
	URI                    string        `yaml:"uri"`
	Database               string        `yaml:"database"`
	ServerSelectionTimeout time.Duration `yaml:"server_selection_timeout"`
	SocketTimeout          time.Duration `yaml:"socket_timeout"`
	ConnectTimeout         time.Duration `yaml:"connect_timeout"`
	MaxPoolSize            uint64        `yaml:"max_pool_size"`
	MinPoolSize            uint64        `yaml:"min_pool_size"`
	MaxIdleTime            time.Duration `yaml:"max_idle_time"`
}

// RedisConfig is optional; an empty URL keeps rate-limit counters in process memory.
type RedisConfig struct {
	URL string `yaml:"url"`
}

type AccessConfig struct {
	Secret            string   `yaml:"secret"`
	Header            string   `yaml:"header"`
	FrontendOrigins   []string `yaml:"frontend_origins"`
	AllowOriginBypass *bool    `yaml:"allow_origin_bypass"`
}

type RateLimitConfig struct {
	Window       time.Duration `yaml:"window"`
	Max          int           `yaml:"max"`
	ContactMax   int           `yaml:"contact_max"`
	APIKeyHeader string        `yaml:"api_key_header"`
}

type PathsConfig struct {
	Logs   string `yaml:"logs"`
	Images string `yaml:"images"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  *bool  `yaml:"file"`
}

type MetricsConfig struct {
	Enable bool   `yaml:"enable"`
	Path   string `yaml:"path"`
}

// Load reads configuration from configPath and applies environment overrides.
// A missing file is only tolerated when configPath is empty or the default path.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	explicit := path != "" && path != DefaultConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyEnv(&cfg, os.LookupEnv)
	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Mongo: MongoConfig{
			Database:               defaultMongoDatabase,
			ServerSelectionTimeout: 15 * time.Second,
			SocketTimeout:          45 * time.Second,
			ConnectTimeout:         15 * time.Second,
			MaxPoolSize:            3,
			MinPoolSize:            0,
			MaxIdleTime:            30 * time.Second,
		},
		Access: AccessConfig{
			Header: defaultAccessHeader,
		},
		RateLimit: RateLimitConfig{
			Window:       defaultRateWindow,
			ContactMax:   defaultContactMax,
			APIKeyHeader: defaultAccessHeader,
		},
		Paths: PathsConfig{
			Logs:   defaultLogsDir,
			Images: defaultImagesDir,
		},
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
		BodyLimitMB: defaultBodyLimitMB,
	}
}

type lookupFunc func(string) (string, bool)

// applyEnv lets the deployment environment override file values.
func applyEnv(cfg *AppConfig, lookup lookupFunc) {
	get := func(keys ...string) (string, bool) {
		for _, key := range keys {
			if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v), true
			}
		}
		return "", false
	}

	if v, ok := get("PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v, ok := get("APP_ENV", "NODE_ENV"); ok {
		cfg.Env = v
	}
	if v, ok := get("MONGODB_ATLAS_URI", "MONGODB_URI"); ok {
		cfg.Mongo.URI = v
	}
	if v, ok := get("MONGODB_DB"); ok {
		cfg.Mongo.Database = v
	}
	if v, ok := get("REDIS_URL"); ok {
		cfg.Redis.URL = v
	}
	if v, ok := get("API_SECRET_KEY", "API_KEY"); ok {
		cfg.Access.Secret = v
	}
	if v, ok := get("FRONTEND_URL"); ok {
		cfg.Access.FrontendOrigins = splitList(v)
	}
	if v, ok := get("RATE_LIMIT_MAX"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.Max = n
		}
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports the first configuration problem that prevents startup.
func (c *AppConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	if strings.TrimSpace(c.Mongo.URI) == "" {
		return errors.New("mongo.uri is required (or set MONGODB_ATLAS_URI)")
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("invalid rate_limit.window %s", c.RateLimit.Window)
	}
	if c.RateLimit.Max < 1 {
		return fmt.Errorf("invalid rate_limit.max %d, expected >= 1", c.RateLimit.Max)
	}
	if c.RateLimit.ContactMax < 1 {
		return fmt.Errorf("invalid rate_limit.contact_max %d, expected >= 1", c.RateLimit.ContactMax)
	}
	if !c.IsDev() && c.Access.Secret == "" {
		return fmt.Errorf("access.secret is required outside development, env %q (or set API_SECRET_KEY)", c.Env)
	}
	return nil
}

// IsDev reports the explicit development mode. Any other environment,
// including staging or test, gets production behavior for error detail and CORS.
func (c *AppConfig) IsDev() bool {
	return c.Env == envDevelopment
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == envProduction
}

// OriginBypass reports whether requests from a frontend origin skip the secret check.
func (c *AppConfig) OriginBypass() bool {
	if c.Access.AllowOriginBypass == nil {
		return true
	}
	return *c.Access.AllowOriginBypass
}

// LogToFile reports whether logs are mirrored into the daily log file.
func (c *AppConfig) LogToFile() bool {
	if c.Log.File == nil {
		return true
	}
	return *c.Log.File
}

func (c *AppConfig) LogDir() string {
	return ResolveRuntimePath(c.Paths.Logs, defaultLogsDir)
}

func (c *AppConfig) ImagesDir() string {
	return ResolveRuntimePath(c.Paths.Images, defaultImagesDir)
}

func (c *AppConfig) BodyLimitBytes() int64 {
	return int64(c.BodyLimitMB) << 20
}
