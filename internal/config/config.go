package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed thresholds.yaml
var thresholdsYAML []byte

type Config struct {
	Detector   DetectorConfig
	Database   DatabaseConfig
	Server     ServerConfig
	Thresholds ThresholdsConfig
}

type DetectorConfig struct {
	URL string // face-detection service base URL, defaults to http://localhost:8500
}

type DatabaseConfig struct {
	Backend       string // "postgres" (default) or "mysql"
	URL           string // connection URL / DSN
	MaxOpenConns  int    // maximum open connections (default 25)
	MaxIdleConns  int    // maximum idle connections (default 5)
	HNSWIndexPath string // path to persist the gallery HNSW index (optional, rebuilt on startup if empty)
}

type ServerConfig struct {
	APIToken string // bearer token for the HTTP API; empty disables auth
}

// ThresholdsConfig carries the caller-side threshold policy. The engine's
// similarity score is policy-free; these values decide match vs no-match.
type ThresholdsConfig struct {
	Search float64 `yaml:"search"` // gallery recognition, looser
	Update float64 `yaml:"update"` // identity photo update, stricter
}

type thresholdsFile struct {
	Thresholds ThresholdsConfig `yaml:"thresholds"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable as a float, falling back to the
// default when unset or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return defaultVal
}

func Load() *Config {
	var defaults thresholdsFile
	if err := yaml.Unmarshal(thresholdsYAML, &defaults); err != nil {
		// Embedded file, cannot fail in practice.
		panic("failed to unmarshal embedded thresholds.yaml: " + err.Error())
	}

	return &Config{
		Detector: DetectorConfig{
			URL: os.Getenv("DETECTOR_URL"),
		},
		Database: DatabaseConfig{
			Backend:       os.Getenv("DATABASE_BACKEND"),
			URL:           os.Getenv("DATABASE_URL"),
			MaxOpenConns:  envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:  envInt("DATABASE_MAX_IDLE_CONNS", 5),
			HNSWIndexPath: os.Getenv("HNSW_INDEX_PATH"),
		},
		Server: ServerConfig{
			APIToken: os.Getenv("API_TOKEN"),
		},
		Thresholds: ThresholdsConfig{
			Search: envFloat("THRESHOLD_SEARCH", defaults.Thresholds.Search),
			Update: envFloat("THRESHOLD_UPDATE", defaults.Thresholds.Update),
		},
	}
}
