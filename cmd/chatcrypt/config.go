package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds the CLI configuration, loaded from the YAML file named by
// CHATCRYPT_CONFIG plus environment overrides.
type Config struct {
	// LogLevel is a zerolog level name; "disabled" silences the engine.
	LogLevel string `yaml:"log_level"`
	// CACertificateFile points at the pinned CA certificate PEM used for
	// sender verification.
	CACertificateFile string `yaml:"ca_certificate"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{LogLevel: "disabled"}
}

// LoadConfig reads the YAML config file, falling back to defaults when
// path is empty. Environment variables override file values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if level := os.Getenv("CHATCRYPT_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if caFile := os.Getenv("CHATCRYPT_CA_CERT"); caFile != "" {
		cfg.CACertificateFile = caFile
	}
	return cfg, nil
}

// Logger builds the engine logger from the configured level, writing
// human-readable lines to stderr so stdout stays pure JSON.
func (c Config) Logger() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	if level == zerolog.Disabled {
		return zerolog.Nop(), nil
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), nil
}

// CACertificatePEM reads the configured CA certificate, or "" when none
// is configured.
func (c Config) CACertificatePEM() (string, error) {
	if c.CACertificateFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.CACertificateFile)
	if err != nil {
		return "", fmt.Errorf("read CA certificate: %w", err)
	}
	return string(data), nil
}
