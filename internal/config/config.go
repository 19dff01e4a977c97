// internal/config/config.go - Configuration management
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Endpoint             string   `yaml:"endpoint"`
	PollInterval         int      `yaml:"poll_interval_seconds"`
	MaxWait              int      `yaml:"max_wait_seconds"`
	RequestTimeout       int      `yaml:"request_timeout_seconds"`
	OutputPath           string   `yaml:"output_path"`
	ShoutrrrURLs         []string `yaml:"shoutrrr_urls"`
	CriticalShoutrrrURLs []string `yaml:"critical_shoutrrr_urls"`
	EnablePrometheus     bool     `yaml:"enable_prometheus"`
	PrometheusPort       int      `yaml:"prometheus_port"`
}

func Defaults() Config {
	return Config{
		Endpoint:       "http://localhost:8080",
		PollInterval:   10,
		MaxWait:        600,
		RequestTimeout: 5,
		OutputPath:     "./sync-snapshot.yaml",
		PrometheusPort: 9090,
	}
}

// Load builds the effective configuration: defaults, then the YAML file if
// one is given, then environment variables on top. Validation is left to the
// caller so flag overrides can be applied first.
func Load(path string) (Config, error) {
	config := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.Endpoint = getEnvDefault("NODE_RPC_URL", config.Endpoint)
	config.PollInterval = getEnvInt("POLL_INTERVAL", config.PollInterval)
	config.MaxWait = getEnvInt("MAX_WAIT", config.MaxWait)
	config.RequestTimeout = getEnvInt("REQUEST_TIMEOUT", config.RequestTimeout)
	config.OutputPath = getEnvDefault("OUTPUT_PATH", config.OutputPath)
	config.EnablePrometheus = getEnvBool("ENABLE_PROMETHEUS", config.EnablePrometheus)
	config.PrometheusPort = getEnvInt("PROMETHEUS_PORT", config.PrometheusPort)

	if urls := os.Getenv("SHOUTRRR_URLS"); urls != "" {
		config.ShoutrrrURLs = splitURLs(urls)
	}
	if urls := os.Getenv("CRITICAL_SHOUTRRR_URLS"); urls != "" {
		config.CriticalShoutrrrURLs = splitURLs(urls)
	}

	return config, nil
}

// Validate rejects a configuration before any network I/O happens.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("endpoint %q is not a valid URL", c.Endpoint)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %d", c.PollInterval)
	}
	if c.MaxWait <= 0 {
		return fmt.Errorf("max wait must be positive, got %d", c.MaxWait)
	}
	if c.PollInterval > c.MaxWait {
		return fmt.Errorf("poll interval (%ds) must not exceed max wait (%ds)", c.PollInterval, c.MaxWait)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %d", c.RequestTimeout)
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return fmt.Errorf("output path is required")
	}
	return nil
}

func splitURLs(value string) []string {
	parts := strings.Split(value, ",")
	urls := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
