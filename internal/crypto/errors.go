package crypto

import "errors"

var (
	// ErrInvalidSalt is returned when a salt is empty or not valid hex.
	ErrInvalidSalt = errors.New("invalid salt encoding")

	// ErrInvalidPassword is returned when authenticated decryption of the
	// private key blob fails. This is the sole password-verification path
	// for unlocking.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrDecryptionFailed is returned when AEAD authentication of a
	// message fails, signalling tampering or a wrong content key.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidKeySize is returned when an AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidNonceSize is returned when an AES-GCM nonce size is invalid.
	ErrInvalidNonceSize = errors.New("invalid nonce size")

	// ErrInvalidBlob is returned when an encrypted private key blob is too
	// short or not valid base64.
	ErrInvalidBlob = errors.New("invalid private key blob")

	// ErrInvalidPEM is returned when PEM key material cannot be parsed.
	ErrInvalidPEM = errors.New("invalid PEM key material")

	// ErrNotRSAKey is returned when PEM material parses but does not
	// contain an RSA key.
	ErrNotRSAKey = errors.New("not an RSA key")
)
