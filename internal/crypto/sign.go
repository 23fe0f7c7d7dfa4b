package crypto

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
)

// pssOptions matches the WebCrypto default used by browser clients:
// salt length equal to the hash length (full-domain salt).
var pssOptions = &rsa.PSSOptions{
	SaltLength: rsa.PSSSaltLengthEqualsHash,
	Hash:       crypto.SHA256,
}

// Sign produces a randomized RSA-PSS signature over SHA-256 of content.
func Sign(content []byte, priv *rsa.PrivateKey) ([]byte, error) {
	digest := sha256.Sum256(content)
	return rsa.SignPSS(randSource(), priv, crypto.SHA256, digest[:], pssOptions)
}

// Verify reports whether signature is a valid PSS signature of content
// under pub. Verification sits on the critical path of trusting a
// counterparty, so every malformed input resolves to false; this function
// never returns an error.
func Verify(content, signature []byte, pub *rsa.PublicKey) bool {
	if pub == nil || len(signature) == 0 {
		return false
	}
	digest := sha256.Sum256(content)
	return rsa.VerifyPSS(pub, crypto.SHA256, digest[:], signature, pssOptions) == nil
}
