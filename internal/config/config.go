package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Session store types.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Defaults.
const (
	DefaultHTTPAddr     = ":8080"
	DefaultMetricsAddr  = ":9090"
	DefaultTimeZone     = "America/Los_Angeles"
	DefaultCalendarID   = "primary"
	DefaultTurnTimeout  = 60 * time.Second
	DefaultSessionTTL   = 24 * time.Hour
	DefaultRateLimit    = 1.0
	DefaultRateBurst    = 10
	DefaultOracleLimit  = 8
	DefaultStartHour    = 9
	DefaultEndHour      = 17
	DefaultBookingTitle = "Meeting booked via AI Assistant"
)

// ServerConfig configures the chat HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// RateLimit is the steady per-client request rate on /chat. Zero disables limiting.
	RateLimit   float64       `yaml:"rate_limit"`
	RateBurst   int           `yaml:"rate_burst"`
	TurnTimeout time.Duration `yaml:"turn_timeout"`
	// EnableMCP mounts the streamable MCP endpoint at /mcp.
	EnableMCP bool `yaml:"enable_mcp"`
}

// CalendarConfig configures the calendar and booking.
type CalendarConfig struct {
	ID        string `yaml:"id"`
	TimeZone  string `yaml:"time_zone"`
	Summary   string `yaml:"summary"`
	StartHour int    `yaml:"start_hour"`
	EndHour   int    `yaml:"end_hour"`

	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	// CredentialsJSON and TokenJSON carry credentials inline, typically from the environment.
	CredentialsJSON string `yaml:"-"`
	TokenJSON       string `yaml:"-"`
}

// OracleConfig selects the text-completion provider.
type OracleConfig struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	MaxConcurrency int    `yaml:"max_concurrency"`
	GeminiAPIKey   string `yaml:"-"`
	OpenAIAPIKey   string `yaml:"-"`
}

// SessionConfig selects where conversation state lives.
type SessionConfig struct {
	Store         string        `yaml:"store"`
	TTL           time.Duration `yaml:"ttl"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"-"`
	RedisDB       int           `yaml:"redis_db"`
	RedisPrefix   string        `yaml:"redis_prefix"`
}

// MetricsConfig configures the dedicated metrics server.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Calendar CalendarConfig `yaml:"calendar"`
	Oracle   OracleConfig   `yaml:"oracle"`
	Session  SessionConfig  `yaml:"session"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        DefaultHTTPAddr,
			RateLimit:   DefaultRateLimit,
			RateBurst:   DefaultRateBurst,
			TurnTimeout: DefaultTurnTimeout,
		},
		Calendar: CalendarConfig{
			ID:        DefaultCalendarID,
			TimeZone:  DefaultTimeZone,
			Summary:   DefaultBookingTitle,
			StartHour: DefaultStartHour,
			EndHour:   DefaultEndHour,
		},
		Oracle: OracleConfig{
			MaxConcurrency: DefaultOracleLimit,
		},
		Session: SessionConfig{
			Store: StoreMemory,
			TTL:   DefaultSessionTTL,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    DefaultMetricsAddr,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, then the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnvOrDefault("HTTP_ADDR", c.Server.Addr)

	c.Calendar.ID = getEnvOrDefault("CALENDAR_ID", c.Calendar.ID)
	c.Calendar.TimeZone = getEnvOrDefault("CALENDAR_TIMEZONE", c.Calendar.TimeZone)
	c.Calendar.Summary = getEnvOrDefault("BOOKING_SUMMARY", c.Calendar.Summary)
	c.Calendar.CredentialsFile = getEnvOrDefault("GOOGLE_CREDENTIALS_FILE", c.Calendar.CredentialsFile)
	c.Calendar.TokenFile = getEnvOrDefault("GOOGLE_TOKEN_FILE", c.Calendar.TokenFile)
	c.Calendar.CredentialsJSON = getEnvOrDefault("GOOGLE_CREDENTIALS_JSON", c.Calendar.CredentialsJSON)
	c.Calendar.TokenJSON = getEnvOrDefault("GOOGLE_TOKEN_JSON", c.Calendar.TokenJSON)

	c.Oracle.Provider = getEnvOrDefault("ORACLE_PROVIDER", c.Oracle.Provider)
	c.Oracle.Model = getEnvOrDefault("ORACLE_MODEL", c.Oracle.Model)
	c.Oracle.BaseURL = getEnvOrDefault("ORACLE_BASE_URL", c.Oracle.BaseURL)
	c.Oracle.GeminiAPIKey = getEnvOrDefault("GOOGLE_API_KEY", c.Oracle.GeminiAPIKey)
	c.Oracle.OpenAIAPIKey = getEnvOrDefault("OPENAI_API_KEY", c.Oracle.OpenAIAPIKey)

	c.Session.Store = getEnvOrDefault("SESSION_STORE", c.Session.Store)
	c.Session.RedisAddr = getEnvOrDefault("REDIS_ADDR", c.Session.RedisAddr)
	c.Session.RedisPassword = getEnvOrDefault("REDIS_PASSWORD", c.Session.RedisPassword)

	c.Metrics.Addr = getEnvOrDefault("METRICS_ADDR", c.Metrics.Addr)
	c.Metrics.Enabled = getEnvBoolOrDefault("METRICS_ENABLED", c.Metrics.Enabled)

	var errs []error
	var err error
	if c.Session.TTL, err = getEnvDurationOrDefault("SESSION_TTL", c.Session.TTL); err != nil {
		errs = append(errs, err)
	}
	if c.Server.TurnTimeout, err = getEnvDurationOrDefault("TURN_TIMEOUT", c.Server.TurnTimeout); err != nil {
		errs = append(errs, err)
	}
	if c.Session.RedisDB, err = getEnvIntOrDefault("REDIS_DB", c.Session.RedisDB); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location resolves the configured time zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Calendar.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.Calendar.TimeZone, err)
	}
	return loc, nil
}

// OracleAPIKey returns the key for the resolved provider.
func (c Config) OracleAPIKey(provider string) string {
	if provider == "openai" {
		return c.Oracle.OpenAIAPIKey
	}
	return c.Oracle.GeminiAPIKey
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server address cannot be empty"))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("rate limit cannot be negative"))
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		errs = append(errs, errors.New("rate burst must be at least 1 when rate limiting is enabled"))
	}
	if c.Server.TurnTimeout <= 0 {
		errs = append(errs, errors.New("turn timeout must be positive"))
	}

	if c.Calendar.ID == "" {
		errs = append(errs, errors.New("calendar id cannot be empty"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.Calendar.StartHour < 0 || c.Calendar.EndHour > 24 || c.Calendar.StartHour >= c.Calendar.EndHour {
		errs = append(errs, fmt.Errorf("invalid working window %d-%d", c.Calendar.StartHour, c.Calendar.EndHour))
	}

	switch strings.ToLower(c.Oracle.Provider) {
	case "", "gemini", "openai":
	default:
		errs = append(errs, fmt.Errorf("unknown oracle provider %q", c.Oracle.Provider))
	}
	if c.Oracle.MaxConcurrency < 0 {
		errs = append(errs, errors.New("oracle max concurrency cannot be negative"))
	}

	switch c.Session.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Session.RedisAddr == "" {
			errs = append(errs, errors.New("redis address is required for the redis session store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown session store %q", c.Session.Store))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		errs = append(errs, errors.New("metrics address cannot be empty when metrics are enabled"))
	}
	if c.Metrics.Enabled && c.Metrics.Addr == c.Server.Addr {
		errs = append(errs, errors.New("metrics address must differ from the server address"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
