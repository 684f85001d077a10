// =============================================================================
// Card Transaction ETL - Configuration Module
// =============================================================================
//
// Configuration comes from three layers, later layers winning:
//   1. Built-in defaults
//   2. The YAML config file (--config, default config.yaml)
//   3. Environment variables (a .env file is honored when present)
//
// The environment layer mirrors how the pipeline is configured when deployed:
// the green-zone destination, for instance, is usually overridden per
// environment rather than baked into the file.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the full application configuration.
type Config struct {
	// LandingDir is the local stand-in for the landing-zone bucket: the
	// directory daily batch CSVs arrive in. Batch keys are paths relative
	// to this directory.
	LandingDir string `yaml:"landing_dir"`

	// GreenZoneDir is the destination for the processed JSONL outputs.
	GreenZoneDir string `yaml:"green_zone_dir"`

	// ArchiveDir receives input files after successful processing when
	// ArchiveProcessed is set.
	ArchiveDir string `yaml:"archive_dir"`

	// ArchiveProcessed moves each input batch to ArchiveDir once its
	// outputs are written.
	ArchiveProcessed bool `yaml:"archive_processed"`

	// TemplatePath optionally points at an XLSX schema template that
	// overrides the built-in rule table.
	TemplatePath string `yaml:"template_path"`

	// MaxConcurrency caps the number of rows validated concurrently within
	// a batch. 1 selects sequential validation.
	MaxConcurrency int `yaml:"max_concurrency"`

	// LogLevel controls verbosity: "debug", "info", "warn" or "error".
	LogLevel string `yaml:"log_level"`

	// Kafka configures the optional summary publisher. Publishing is
	// disabled while Brokers is empty.
	Kafka KafkaConfig `yaml:"kafka"`
}

// KafkaConfig holds the settings for the batch-summary topic.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Enabled reports whether summary publishing is configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration file, applies defaults and environment
// overrides, and ensures the working directories exist.
//
// A missing config file is not an error — the defaults plus environment are
// a complete configuration on their own.
func Load(path string) (*Config, error) {
	// Pick up a local .env if there is one; absence is fine.
	_ = godotenv.Load()

	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := ensureDirectories(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills in every unset option.
func applyDefaults(cfg *Config) {
	if cfg.LandingDir == "" {
		cfg.LandingDir = "./landing-zone"
	}
	if cfg.GreenZoneDir == "" {
		cfg.GreenZoneDir = "./green-zone"
	}
	if cfg.ArchiveDir == "" {
		cfg.ArchiveDir = "./landing-archive"
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// applyEnvOverrides lets the environment win over the file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LANDING_DIR"); v != "" {
		cfg.LandingDir = v
	}
	if v := os.Getenv("GREEN_ZONE_DIR"); v != "" {
		cfg.GreenZoneDir = v
	}
	if v := os.Getenv("ARCHIVE_DIR"); v != "" {
		cfg.ArchiveDir = v
	}
	if v := os.Getenv("SCHEMA_TEMPLATE"); v != "" {
		cfg.TemplatePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MAX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxConcurrency = n
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitAndTrim(v)
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}
}

// ensureDirectories creates the working directories if they do not exist.
func ensureDirectories(cfg *Config) error {
	dirs := []string{cfg.LandingDir, cfg.GreenZoneDir}
	if cfg.ArchiveProcessed {
		dirs = append(dirs, cfg.ArchiveDir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
