package crypto

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/scrypt"
)

// DerivedSecrets holds the two uses of one (password, salt) derivation.
//
// Credential goes to the server as the login credential and never leaves
// this shape unhexed. WrapKey stays local and protects the private key at
// rest. The two come from disjoint slices of a single scrypt output, so
// possession of the credential does not yield the wrap key.
type DerivedSecrets struct {
	// Credential is the server-facing credential, hex-encoded.
	Credential string
	// WrapKey is the local AES-256 private-key wrap key.
	WrapKey []byte
}

// DeriveSecrets derives the login credential and the private-key wrap key
// from a password and a hex-encoded salt.
//
// The credential is the first 32 bytes of a 64-byte scrypt output
// (N=2^14, r=8, p=1), hex-encoded; by the PBKDF2 prefix property this is
// byte-identical to a 32-byte reference derivation. The wrap key is the
// second 32 bytes run through HKDF-SHA-256 with a versioned context label.
func DeriveSecrets(password, saltHex string) (*DerivedSecrets, error) {
	salt, err := decodeSalt(saltHex)
	if err != nil {
		return nil, err
	}

	out, err := scrypt.Key([]byte(password), salt, ScryptN, ScryptR, ScryptP, kdfOutputSize)
	if err != nil {
		return nil, fmt.Errorf("scrypt: %w", err)
	}

	wrapKey, err := deriveWrapKey(out[CredentialSize:], salt)
	if err != nil {
		return nil, err
	}

	secrets := &DerivedSecrets{
		Credential: ToHex(out[:CredentialSize]),
		WrapKey:    wrapKey,
	}
	ZeroBytes(out)
	return secrets, nil
}

// DeriveSecretsContext runs DeriveSecrets off the calling goroutine so an
// interactive caller can abandon the derivation. scrypt is CPU-expensive
// by design; on cancellation the worker finishes and discards its output.
func DeriveSecretsContext(ctx context.Context, password, saltHex string) (*DerivedSecrets, error) {
	type result struct {
		secrets *DerivedSecrets
		err     error
	}

	ch := make(chan result, 1)
	go func() {
		secrets, err := DeriveSecrets(password, saltHex)
		ch <- result{secrets, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.secrets, r.err
	}
}

// deriveWrapKey separates the wrap key from the credential slice with a
// versioned HKDF info label.
func deriveWrapKey(ikm, salt []byte) ([]byte, error) {
	reader := hkdf.New(sha256.New, ikm, salt, []byte(WrapKeyContext))
	key := make([]byte, WrapKeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive wrap key: %w", err)
	}
	return key, nil
}

// NewSaltHex generates a fresh credential salt, hex-encoded. Generated once
// per account at signup; stored server-side; never secret.
func NewSaltHex() (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	return ToHex(salt), nil
}

func decodeSalt(saltHex string) ([]byte, error) {
	if saltHex == "" {
		return nil, ErrInvalidSalt
	}
	salt, err := FromHex(saltHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSalt, err)
	}
	return salt, nil
}

// ZeroBytes overwrites b in place. Key material is zeroed before its
// buffer is released.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
