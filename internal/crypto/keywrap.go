package crypto

import "fmt"

// EncryptPrivateKey wraps a serialized private key under the KDF wrap key.
// The blob layout is nonce (12 bytes) || ciphertext || tag, base64-encoded.
func EncryptPrivateKey(privateKeyPEM string, wrapKey []byte) (string, error) {
	nonce, err := NewNonce()
	if err != nil {
		return "", err
	}
	ciphertext, err := encryptAESGCM(wrapKey, nonce, []byte(privateKeyPEM))
	if err != nil {
		return "", fmt.Errorf("encrypt private key: %w", err)
	}
	return ToBase64(append(nonce, ciphertext...)), nil
}

// DecryptPrivateKey splits nonce and ciphertext, authenticates and
// decrypts the private key blob. Authentication failure resolves to
// ErrInvalidPassword: this is the sole password-verification path for
// unlocking, and the single constant-time AEAD open leaks nothing about
// how much of the password was correct.
func DecryptPrivateKey(blobB64 string, wrapKey []byte) (string, error) {
	blob, err := FromBase64(blobB64)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBlob, err)
	}
	if len(blob) < AESNonceSize+AESTagSize {
		return "", ErrInvalidBlob
	}

	nonce := blob[:AESNonceSize]
	ciphertext := blob[AESNonceSize:]

	plaintext, err := decryptAESGCM(wrapKey, nonce, ciphertext)
	if err != nil {
		return "", ErrInvalidPassword
	}
	return string(plaintext), nil
}
