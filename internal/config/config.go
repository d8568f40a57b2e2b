package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for one reconciler invocation.
type Config struct {
	Zammad ZammadConfig
	Logger LoggerConfig
}

// ZammadConfig holds connection details for the remote Zammad instance.
type ZammadConfig struct {
	URL            string
	APIUser        string
	APISecret      string
	APIToken       string
	TimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults
// where possible. Connection values have no defaults; their presence is
// validated by the caller once the requested operation is known.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout := getEnvAsInt("ZAMMAD_HTTP_TIMEOUT_SECONDS", 30)
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid ZAMMAD_HTTP_TIMEOUT_SECONDS: must be positive")
	}

	cfg := &Config{
		Zammad: ZammadConfig{
			URL:            os.Getenv("ZAMMAD_URL"),
			APIUser:        os.Getenv("ZAMMAD_API_USER"),
			APISecret:      os.Getenv("ZAMMAD_API_SECRET"),
			APIToken:       os.Getenv("ZAMMAD_API_TOKEN"),
			TimeoutSeconds: timeout,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// Timeout returns the configured HTTP client timeout duration.
func (z ZammadConfig) Timeout() time.Duration {
	return time.Duration(z.TimeoutSeconds) * time.Second
}

// HasCredentials reports whether either auth scheme is fully specified.
func (z ZammadConfig) HasCredentials() bool {
	if z.APIToken != "" {
		return true
	}
	return z.APIUser != "" && z.APISecret != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
