package chatcrypt

import (
	"time"

	"github.com/rs/zerolog"
)

// engineConfig holds configuration for the engine.
type engineConfig struct {
	logger       zerolog.Logger
	clock        func() time.Time
	directory    Directory
	caCertPEM    string
	cacheEnabled bool
}

// Option configures the engine.
type Option func(*engineConfig)

func defaultConfig() *engineConfig {
	return &engineConfig{
		logger:       zerolog.Nop(),
		clock:        time.Now,
		cacheEnabled: true,
	}
}

// WithLogger sets the structured logger. The engine logs custody
// transitions and trust-cache invalidations; it never logs passwords, key
// material, plaintext or blobs.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithClock sets the time source used for certificate expiry checks.
// Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *engineConfig) {
		c.clock = clock
	}
}

// WithDirectory sets the lookup collaborator supplying counterparty
// public keys and certificates.
func WithDirectory(directory Directory) Option {
	return func(c *engineConfig) {
		c.directory = directory
	}
}

// WithCACertificate pins the CA certificate used to evaluate counterparty
// certificates. Without it, certificate-backed verification degrades to
// unverifiable.
func WithCACertificate(caCertPEM string) Option {
	return func(c *engineConfig) {
		c.caCertPEM = caCertPEM
	}
}

// WithoutTrustCache disables the per-sender verification cache. The cache
// is a pure optimization; dropping it is always safe.
func WithoutTrustCache() Option {
	return func(c *engineConfig) {
		c.cacheEnabled = false
	}
}
