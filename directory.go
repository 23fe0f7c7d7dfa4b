package chatcrypt

import (
	"context"
	"errors"
	"sync"
)

// CertStatus describes the state of a user's CA relationship. Transitions
// are server-driven; the engine only reads the value.
type CertStatus string

const (
	// CertStatusNone means the user has no certificate.
	CertStatusNone CertStatus = "none"
	// CertStatusPending means a signing request awaits the CA.
	CertStatusPending CertStatus = "pending"
	// CertStatusActive means the certificate is usable for verification.
	CertStatusActive CertStatus = "active"
	// CertStatusExpired means the validity window has closed.
	CertStatusExpired CertStatus = "expired"
	// CertStatusRevoked means the CA withdrew the certificate.
	CertStatusRevoked CertStatus = "revoked"
)

// ErrUserNotFound is returned by directory lookups for unknown users.
var ErrUserNotFound = errors.New("user not found")

// CertificateLookup is the result of a certificate directory lookup.
type CertificateLookup struct {
	// CertificatePEM is the user's certificate, empty when Status is none
	// or pending.
	CertificatePEM string
	// Status is the server-reported certificate status.
	Status CertStatus
}

// Directory is the lookup collaborator supplying counterparty key
// material. The engine never caches public keys itself; certificate trust
// evaluations are cached per sender for the session.
type Directory interface {
	// GetPublicKey returns the user's public key PEM.
	GetPublicKey(ctx context.Context, userID string) (string, error)
	// GetCertificate returns the user's certificate and its status.
	GetCertificate(ctx context.Context, userID string) (*CertificateLookup, error)
}

// MemoryDirectory is an in-memory Directory for tests and examples.
type MemoryDirectory struct {
	mu    sync.RWMutex
	keys  map[string]string
	certs map[string]CertificateLookup
}

// NewMemoryDirectory creates an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		keys:  make(map[string]string),
		certs: make(map[string]CertificateLookup),
	}
}

// SetPublicKey registers a user's public key.
func (d *MemoryDirectory) SetPublicKey(userID, publicKeyPEM string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keys[userID] = publicKeyPEM
}

// SetCertificate registers a user's certificate and status.
func (d *MemoryDirectory) SetCertificate(userID, certificatePEM string, status CertStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.certs[userID] = CertificateLookup{CertificatePEM: certificatePEM, Status: status}
}

// GetPublicKey implements Directory.
func (d *MemoryDirectory) GetPublicKey(_ context.Context, userID string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	key, ok := d.keys[userID]
	if !ok {
		return "", ErrUserNotFound
	}
	return key, nil
}

// GetCertificate implements Directory.
func (d *MemoryDirectory) GetCertificate(_ context.Context, userID string) (*CertificateLookup, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	lookup, ok := d.certs[userID]
	if !ok {
		if _, known := d.keys[userID]; known {
			return &CertificateLookup{Status: CertStatusNone}, nil
		}
		return nil, ErrUserNotFound
	}
	return &lookup, nil
}
