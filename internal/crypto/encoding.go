package crypto

import (
	"encoding/base64"
	"encoding/hex"
)

// ToHex encodes bytes to lowercase hex. Used for nonces and ciphertext.
func ToHex(data []byte) string {
	return hex.EncodeToString(data)
}

// FromHex decodes a hex string to bytes.
func FromHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// ToBase64 encodes bytes to standard base64 with padding. Used for wrapped
// keys, signatures and the private key blob.
func ToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// FromBase64 decodes standard base64 (with padding) to bytes.
func FromBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
