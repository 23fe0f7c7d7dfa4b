package chatcrypt

import (
	"errors"
	"fmt"

	icrypto "github.com/chatseal/chatcrypt-go/internal/crypto"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrKDF is returned when key derivation fails.
	ErrKDF = errors.New("key derivation failed")

	// ErrInvalidSalt is returned when a credential salt is empty or not
	// valid hex.
	ErrInvalidSalt = errors.New("invalid salt encoding")

	// ErrInvalidPassword is returned when unlocking fails authenticated
	// decryption of the private key blob. Expected, user-facing,
	// recoverable by retry.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrDecryptionFailed is returned when AEAD authentication of a
	// message fails: the envelope was tampered with or addressed to a
	// different key. Never retried automatically.
	ErrDecryptionFailed = errors.New("message decryption failed")

	// ErrCertificateInvalid is returned when certificate material cannot
	// be parsed or evaluated.
	ErrCertificateInvalid = errors.New("certificate invalid")

	// ErrInvalidState is returned when an operation requiring the private
	// key runs while the identity is locked or absent. A usage error the
	// caller should prevent via custody-state checks; it fails loudly
	// rather than silently no-op.
	ErrInvalidState = errors.New("operation not permitted in current custody state")

	// ErrInvalidKey is returned when PEM key material handed to the
	// engine cannot be parsed.
	ErrInvalidKey = errors.New("invalid key material")

	// ErrInvalidEnvelope is returned when a message envelope is malformed
	// or mixes the hybrid and signed-plaintext shapes.
	ErrInvalidEnvelope = errors.New("invalid message envelope")

	// ErrInvalidImportData is returned when imported identity data is
	// invalid.
	ErrInvalidImportData = errors.New("invalid identity import data")

	// ErrNoDirectory is returned when a sender-verification operation
	// needs the directory collaborator and none is configured.
	ErrNoDirectory = errors.New("no directory configured")
)

// ChatCryptError is implemented by all engine errors.
type ChatCryptError interface {
	error
	ChatCryptError() // marker method
}

// KDFError wraps a key derivation failure.
type KDFError struct {
	Err error
}

func (e *KDFError) Error() string {
	return fmt.Sprintf("key derivation failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *KDFError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *KDFError) Is(target error) bool {
	if target == ErrKDF {
		return true
	}
	if target == ErrInvalidSalt {
		return errors.Is(e.Err, icrypto.ErrInvalidSalt)
	}
	return false
}

// ChatCryptError implements the ChatCryptError interface.
func (e *KDFError) ChatCryptError() {}

// StateError reports an operation attempted in the wrong custody state.
type StateError struct {
	Op    string
	State CustodyState
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s requires an unlocked identity (custody state: %s)", e.Op, e.State)
}

// Is implements errors.Is for sentinel error matching.
func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}

// ChatCryptError implements the ChatCryptError interface.
func (e *StateError) ChatCryptError() {}

// DecryptionError reports a failed message decryption.
type DecryptionError struct {
	Stage string // "unwrap", "aead", "decode"
	Err   error
}

func (e *DecryptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decryption failed at %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("decryption failed at %s", e.Stage)
}

// Unwrap returns the underlying error.
func (e *DecryptionError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *DecryptionError) Is(target error) bool {
	return target == ErrDecryptionFailed
}

// ChatCryptError implements the ChatCryptError interface.
func (e *DecryptionError) ChatCryptError() {}

// CertificateError reports unusable certificate material. It degrades
// trust to "unverifiable"; it never blocks message display.
type CertificateError struct {
	Reason string
	Err    error
}

func (e *CertificateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("certificate error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("certificate error: %s", e.Reason)
}

// Unwrap returns the underlying error.
func (e *CertificateError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *CertificateError) Is(target error) bool {
	return target == ErrCertificateInvalid
}

// ChatCryptError implements the ChatCryptError interface.
func (e *CertificateError) ChatCryptError() {}

// wrapKDFError converts internal derivation errors to public ones so that
// errors.Is() checks work correctly.
func wrapKDFError(err error) error {
	if err == nil {
		return nil
	}
	return &KDFError{Err: err}
}
