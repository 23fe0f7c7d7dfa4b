package chatcrypt

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	icrypto "github.com/chatseal/chatcrypt-go/internal/crypto"
)

// CreatedIdentity is the result of CreateIdentity. Everything in it is
// safe to send to the server: the credential authenticates the account,
// the public key and encrypted blob are the persisted identity, and the
// blob is opaque without the password.
type CreatedIdentity struct {
	// IdentityID is the generated identity identifier.
	IdentityID string
	// PublicKeyPEM is the identity's public key.
	PublicKeyPEM string
	// EncryptedPrivateKey is the private-key blob, encrypted under the
	// password-derived wrap key.
	EncryptedPrivateKey string
	// Credential is the server-facing login credential, hex-encoded.
	Credential string
	// SaltHex is the credential salt used for the derivation.
	SaltHex string
}

// CreateIdentity generates a fresh identity keypair, derives the login
// credential and wrap key from the password, and encrypts the private key
// under the wrap key. The engine ends up unlocked with the new identity
// resident.
//
// The plaintext private key never appears in the returned value.
func (e *Engine) CreateIdentity(ctx context.Context, password, saltHex string) (*CreatedIdentity, error) {
	secrets, err := icrypto.DeriveSecretsContext(ctx, password, saltHex)
	if err != nil {
		return nil, wrapKDFError(err)
	}
	defer icrypto.ZeroBytes(secrets.WrapKey)

	keyPair, err := icrypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}

	blob, err := icrypto.EncryptPrivateKey(keyPair.PrivatePEM, secrets.WrapKey)
	if err != nil {
		return nil, err
	}

	identityID := uuid.NewString()

	e.mu.Lock()
	e.identityID = identityID
	e.publicKeyPEM = keyPair.PublicPEM
	e.encryptedPrivateKey = blob
	e.saltHex = saltHex
	e.privateKey = keyPair.Private
	if e.trust != nil {
		e.trust.clear()
	}
	e.setStateLocked(StateUnlocked)
	e.mu.Unlock()

	e.log.Info().Str("identity_id", identityID).Msg("identity created")

	return &CreatedIdentity{
		IdentityID:          identityID,
		PublicKeyPEM:        keyPair.PublicPEM,
		EncryptedPrivateKey: blob,
		Credential:          secrets.Credential,
		SaltHex:             saltHex,
	}, nil
}

// ExportedIdentity is the portable serialization of one identity. It
// carries only ciphertext and public material, so it can cross machines
// over untrusted storage; importing it still requires the password.
type ExportedIdentity struct {
	Version             int    `json:"version"`
	IdentityID          string `json:"identity_id"`
	PublicKeyPEM        string `json:"public_key"`
	EncryptedPrivateKey string `json:"encrypted_private_key"`
	SaltHex             string `json:"salt"`
}

// exportVersion is the current identity export format version.
const exportVersion = 1

// Validate checks the export for structural completeness.
func (x *ExportedIdentity) Validate() error {
	if x.Version != exportVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidImportData, x.Version)
	}
	if x.PublicKeyPEM == "" || x.EncryptedPrivateKey == "" || x.SaltHex == "" {
		return fmt.Errorf("%w: missing field", ErrInvalidImportData)
	}
	if _, err := icrypto.ParsePublicKeyPEM(x.PublicKeyPEM); err != nil {
		return fmt.Errorf("%w: bad public key", ErrInvalidImportData)
	}
	return nil
}

// ExportIdentity serializes the loaded identity for transfer to another
// device. Works in both the locked and unlocked states; the private key
// leaves only in its encrypted form.
func (e *Engine) ExportIdentity() (*ExportedIdentity, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.state == StateNoIdentity {
		return nil, &StateError{Op: "export identity", State: StateNoIdentity}
	}
	return &ExportedIdentity{
		Version:             exportVersion,
		IdentityID:          e.identityID,
		PublicKeyPEM:        e.publicKeyPEM,
		EncryptedPrivateKey: e.encryptedPrivateKey,
		SaltHex:             e.saltHex,
	}, nil
}

// ImportIdentity loads an exported identity into the engine in the locked
// state. Unlock with the original password completes the transfer.
func (e *Engine) ImportIdentity(x *ExportedIdentity) error {
	if err := x.Validate(); err != nil {
		return err
	}
	return e.Restore(x.IdentityID, x.PublicKeyPEM, x.EncryptedPrivateKey, x.SaltHex)
}
