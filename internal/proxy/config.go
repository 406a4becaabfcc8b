// Package proxy is a small HTTP front for browser clients: it accepts unsigned search requests,
// signs them with the server-held access key and relays the service's answer.
package proxy

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-ini/ini"
)

var ErrInvalidConfig = errors.New("invalid proxy config")

// Config is the `[proxy]` section of the config file.
type Config struct {
	Address     string `ini:"address"`
	Endpoint    string `ini:"endpoint"`
	WorkspaceID string `ini:"workspace_id"`
	// Empty allows any origin.
	AllowedOrigins    []string      `ini:"allowed_origins" delim:","`
	RequestsPerMinute float64       `ini:"requests_per_minute"`
	Burst             int           `ini:"burst"`
	MaxBodyBytes      int64         `ini:"max_body_bytes"`
	UpstreamTimeout   time.Duration `ini:"upstream_timeout"`
	MaxAttempts       int           `ini:"max_attempts"`
	HashPayload       bool          `ini:"hash_payload"`
	LogRequests       bool          `ini:"log_requests"`
}

const (
	defaultAddress           = ":8080"
	defaultEndpoint          = "farui.cn-beijing.aliyuncs.com"
	defaultRequestsPerMinute = 120
	defaultBurst             = 20
	defaultMaxBodyBytes      = 1 << 20 // 1 MiB
	defaultUpstreamTimeout   = 30 * time.Second

	sectionName = "proxy"
)

// Environment variables that override the file.
const (
	EnvAddress        = "ACS_PROXY_ADDRESS"
	EnvEndpoint       = "ACS_PROXY_ENDPOINT"
	EnvWorkspaceID    = "ACS_PROXY_WORKSPACE_ID"
	EnvAllowedOrigins = "ACS_PROXY_ALLOWED_ORIGINS"
	EnvRateLimit      = "ACS_PROXY_REQUESTS_PER_MINUTE"
)

func DefaultConfig() Config {
	return Config{
		Address:           defaultAddress,
		Endpoint:          defaultEndpoint,
		RequestsPerMinute: defaultRequestsPerMinute,
		Burst:             defaultBurst,
		MaxBodyBytes:      defaultMaxBodyBytes,
		UpstreamTimeout:   defaultUpstreamTimeout,
	}
}

// LoadConfig reads the `[proxy]` section of filename over the defaults, then applies environment
// overrides. An empty filename skips the file. getenv defaults to os.Getenv.
func LoadConfig(filename string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := DefaultConfig()
	if filename != "" {
		file, err := ini.Load(filename)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", filename, err)
		}
		if err := file.Section(sectionName).MapTo(&cfg); err != nil {
			return nil, fmt.Errorf("%w: section [%s]: %v", ErrInvalidConfig, sectionName, err)
		}
	}

	if v := strings.TrimSpace(getenv(EnvAddress)); v != "" {
		cfg.Address = v
	}
	if v := strings.TrimSpace(getenv(EnvEndpoint)); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(getenv(EnvWorkspaceID)); v != "" {
		cfg.WorkspaceID = v
	}
	if v := strings.TrimSpace(getenv(EnvAllowedOrigins)); v != "" {
		cfg.AllowedOrigins = strings.Split(v, ",")
	}
	if v := strings.TrimSpace(getenv(EnvRateLimit)); v != "" {
		rpm, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvRateLimit, err)
		}
		cfg.RequestsPerMinute = rpm
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	origins := c.AllowedOrigins[:0]
	for _, origin := range c.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	c.AllowedOrigins = origins
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaultMaxBodyBytes
	}
	if c.UpstreamTimeout <= 0 {
		c.UpstreamTimeout = defaultUpstreamTimeout
	}
	if c.Burst <= 0 {
		c.Burst = defaultBurst
	}
}

// Validate reports missing mandatory settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Address) == "" {
		return fmt.Errorf("%w: address is empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("%w: endpoint is empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.WorkspaceID) == "" {
		return fmt.Errorf("%w: workspace_id is empty", ErrInvalidConfig)
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: requests_per_minute must not be negative", ErrInvalidConfig)
	}
	return nil
}
