package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvPort        = "PORT"
	EnvDatabaseURL = "DATABASE_URL"

	DefaultPort = "3001"
)

var ErrInvalidPort = errors.New("invalid port")

type Config struct {
	Port        string
	DatabaseURL string

	LogLevel  string
	LogFormat string

	MetricsEnabled  bool
	ShutdownTimeout time.Duration

	// CORS
	CORSAllowOrigins []string
}

// Load reads the process environment. A PORT that is set but not a valid
// TCP port is an error rather than a silent fallback to DefaultPort.
func Load() (Config, error) {
	return LoadFrom(os.LookupEnv)
}

func LoadFrom(lookup func(string) (string, bool)) (Config, error) {
	get := func(k, def string) string {
		if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
			return v
		}
		return def
	}

	port := strings.TrimSpace(get(EnvPort, DefaultPort))
	if err := validatePort(port); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:        port,
		DatabaseURL: strings.TrimSpace(get(EnvDatabaseURL, "")),

		LogLevel:  strings.ToLower(get("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(get("LOG_FORMAT", "text")),

		MetricsEnabled:  parseBool(get("METRICS_ENABLED", ""), false),
		ShutdownTimeout: parseDuration(get("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),

		CORSAllowOrigins: splitCSV(get("CORS_ALLOW_ORIGINS", "*")),
	}

	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func validatePort(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: PORT=%q is not a number", ErrInvalidPort, v)
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("%w: PORT=%d out of range 1-65535", ErrInvalidPort, n)
	}
	return nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseBool(v string, def bool) bool {
	switch v {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
