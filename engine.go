package chatcrypt

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	icrypto "github.com/chatseal/chatcrypt-go/internal/crypto"
)

// Engine is the client-side encryption engine. It owns the identity
// keypair for one user, tracks its custody state, and performs every
// cryptographic operation of a session: credential derivation, message
// encryption and decryption, signing, and certificate request
// construction.
//
// All methods are safe for concurrent use. Operations that need the
// private key snapshot it under the lock at operation start; a
// concurrent Lock or Wipe does not abort work already in flight.
type Engine struct {
	mu sync.RWMutex

	log       zerolog.Logger
	clock     func() time.Time
	directory Directory
	caCertPEM string

	state               CustodyState
	identityID          string
	publicKeyPEM        string
	encryptedPrivateKey string
	saltHex             string
	privateKey          *rsa.PrivateKey

	trust *trustCache
}

// New creates an engine with no identity loaded.
func New(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	e := &Engine{
		log:       cfg.logger,
		clock:     cfg.clock,
		directory: cfg.directory,
		caCertPEM: cfg.caCertPEM,
		state:     StateNoIdentity,
	}
	if cfg.cacheEnabled {
		e.trust = newTrustCache()
	}
	return e
}

// State returns the current custody state.
func (e *Engine) State() CustodyState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// IdentityID returns the loaded identity's ID, or "" when none is loaded.
func (e *Engine) IdentityID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.identityID
}

// PublicKeyPEM returns the loaded identity's public key, or "" when none
// is loaded. The public key is available in both the locked and unlocked
// states.
func (e *Engine) PublicKeyPEM() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.publicKeyPEM
}

// EncryptedPrivateKey returns the private-key blob as held by the engine,
// or "" when no identity is loaded. The blob is safe to persist
// server-side: it is opaque without the password-derived wrap key.
func (e *Engine) EncryptedPrivateKey() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.encryptedPrivateKey
}

// NewSalt generates a fresh hex-encoded credential salt. Called once per
// account at signup; the salt is stored server-side and is not secret.
func (e *Engine) NewSalt() (string, error) {
	return icrypto.NewSaltHex()
}

// DeriveCredential derives the server-facing login credential from the
// password and salt. The credential shares no derivable relationship with
// the private-key wrap key, so the server's copy cannot unlock anything.
//
// Derivation is CPU-expensive by design; ctx lets an interactive caller
// abandon it.
func (e *Engine) DeriveCredential(ctx context.Context, password, saltHex string) (string, error) {
	secrets, err := icrypto.DeriveSecretsContext(ctx, password, saltHex)
	if err != nil {
		return "", wrapKDFError(err)
	}
	icrypto.ZeroBytes(secrets.WrapKey)
	return secrets.Credential, nil
}

// Restore loads a previously created identity into the engine in the
// locked state. The blob and salt typically come back from the server at
// login; the private key stays encrypted until Unlock.
func (e *Engine) Restore(identityID, publicKeyPEM, encryptedPrivateKey, saltHex string) error {
	if _, err := icrypto.ParsePublicKeyPEM(publicKeyPEM); err != nil {
		return ErrInvalidKey
	}
	if encryptedPrivateKey == "" || saltHex == "" {
		return ErrInvalidImportData
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.identityID = identityID
	e.publicKeyPEM = publicKeyPEM
	e.encryptedPrivateKey = encryptedPrivateKey
	e.saltHex = saltHex
	e.privateKey = nil
	e.setStateLocked(StateLocked)
	return nil
}

// Unlock decrypts the stored private-key blob with the wrap key derived
// from the password. On success the plaintext private key becomes
// resident and the engine transitions to unlocked. A wrong password
// returns ErrInvalidPassword and leaves the state untouched; retrying is
// safe.
func (e *Engine) Unlock(ctx context.Context, password string) error {
	e.mu.RLock()
	if e.state == StateNoIdentity {
		e.mu.RUnlock()
		return &StateError{Op: "unlock", State: StateNoIdentity}
	}
	blob := e.encryptedPrivateKey
	saltHex := e.saltHex
	e.mu.RUnlock()

	secrets, err := icrypto.DeriveSecretsContext(ctx, password, saltHex)
	if err != nil {
		return wrapKDFError(err)
	}
	defer icrypto.ZeroBytes(secrets.WrapKey)

	privPEM, err := icrypto.DecryptPrivateKey(blob, secrets.WrapKey)
	if err != nil {
		if errors.Is(err, icrypto.ErrInvalidPassword) {
			return ErrInvalidPassword
		}
		return fmt.Errorf("%w: %v", ErrInvalidImportData, err)
	}

	priv, err := icrypto.ParsePrivateKeyPEM(privPEM)
	if err != nil {
		return ErrInvalidKey
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateNoIdentity {
		// Wiped while deriving; the unlock loses.
		return &StateError{Op: "unlock", State: StateNoIdentity}
	}
	e.privateKey = priv
	e.setStateLocked(StateUnlocked)
	return nil
}

// Lock discards the resident plaintext private key. The encrypted blob
// and salt are kept, so a later Unlock needs only the password. Locking
// an already locked engine is a no-op.
func (e *Engine) Lock() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateUnlocked {
		return
	}
	e.privateKey = nil
	e.setStateLocked(StateLocked)
}

// Wipe discards all identity state: resident private key, encrypted
// blob, salt, and public key. Used at logout. Subsequent key operations
// fail with ErrInvalidState until a new identity is created or restored.
func (e *Engine) Wipe() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.privateKey = nil
	e.identityID = ""
	e.publicKeyPEM = ""
	e.encryptedPrivateKey = ""
	e.saltHex = ""
	if e.trust != nil {
		e.trust.clear()
	}
	e.setStateLocked(StateNoIdentity)
}

// setStateLocked records a custody transition. Caller holds e.mu.
func (e *Engine) setStateLocked(next CustodyState) {
	if e.state != next {
		e.log.Info().
			Str("from", e.state.String()).
			Str("to", next.String()).
			Msg("custody state transition")
	}
	e.state = next
}

// snapshotPrivateKey returns the resident private key for one operation,
// or a StateError when the engine is not unlocked. The snapshot keeps an
// in-flight operation consistent across a concurrent Lock or Wipe.
func (e *Engine) snapshotPrivateKey(op string) (*rsa.PrivateKey, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.state != StateUnlocked || e.privateKey == nil {
		return nil, &StateError{Op: op, State: e.state}
	}
	return e.privateKey, nil
}
