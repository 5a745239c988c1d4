/*
Package config loads runtime settings.

SOURCES (later wins):
  1. Defaults
  2. .env file in the working directory (optional, local development)
  3. Process environment
  4. CLI flags, applied by cmd/daycal

VARIABLES:
  DAYCAL_PORT             HTTP port (default 8080)
  DAYCAL_DB               SQLite path, ":memory:" allowed (default daycal.db)
  DAYCAL_ALLOWED_ORIGINS  Comma-separated CORS origins
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPort   = 8080
	DefaultDBPath = "daycal.db"
)

// DefaultAllowedOrigins matches the dev frontend and the bundled server.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// Config holds runtime settings.
type Config struct {
	Port           int
	DBPath         string
	AllowedOrigins []string
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	// .env is only used for local development; a missing file is fine.
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:           DefaultPort,
		DBPath:         DefaultDBPath,
		AllowedOrigins: DefaultAllowedOrigins,
	}

	if v := strings.TrimSpace(getenv("DAYCAL_PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return cfg, fmt.Errorf("invalid DAYCAL_PORT %q", v)
		}
		cfg.Port = port
	}
	if v := strings.TrimSpace(getenv("DAYCAL_DB")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(getenv("DAYCAL_ALLOWED_ORIGINS")); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
