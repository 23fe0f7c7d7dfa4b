package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
)

const (
	pemTypePrivateKey = "PRIVATE KEY"
	pemTypePublicKey  = "PUBLIC KEY"
)

// randReader is the random source used for key generation and encryption.
// It defaults to nil (which uses crypto/rand) but can be overridden for
// testing.
var randReader io.Reader

func randSource() io.Reader {
	if randReader != nil {
		return randReader
	}
	return rand.Reader
}

// KeyPair represents an RSA-2048 identity keypair, usable both for OAEP
// key wrapping and PSS signing.
type KeyPair struct {
	// Private is the parsed private key.
	Private *rsa.PrivateKey
	// PrivatePEM is the PKCS#8 serialization of the private half.
	PrivatePEM string
	// PublicPEM is the PKIX serialization of the public half.
	PublicPEM string
}

// GenerateKeyPair creates a fresh RSA-2048 identity keypair and its
// portable PEM serializations.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := rsa.GenerateKey(randSource(), RSAKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}

	privPEM, err := MarshalPrivateKeyPEM(priv)
	if err != nil {
		return nil, err
	}
	pubPEM, err := MarshalPublicKeyPEM(&priv.PublicKey)
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		Private:    priv,
		PrivatePEM: privPEM,
		PublicPEM:  pubPEM,
	}, nil
}

// MarshalPrivateKeyPEM serializes a private key to PKCS#8 PEM.
func MarshalPrivateKeyPEM(priv *rsa.PrivateKey) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return "", fmt.Errorf("marshal private key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: pemTypePrivateKey, Bytes: der})), nil
}

// MarshalPublicKeyPEM serializes a public key to PKIX PEM.
func MarshalPublicKeyPEM(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("marshal public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: pemTypePublicKey, Bytes: der})), nil
}

// ParsePrivateKeyPEM parses a PKCS#8 PEM private key.
func ParsePrivateKeyPEM(pemStr string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, ErrInvalidPEM
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPEM, err)
	}
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrNotRSAKey
	}
	return priv, nil
}

// ParsePublicKeyPEM parses a PKIX PEM public key.
func ParsePublicKeyPEM(pemStr string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, ErrInvalidPEM
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPEM, err)
	}
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, ErrNotRSAKey
	}
	return pub, nil
}
