package crypto

import (
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
)

// HybridMessage holds the raw components of one hybrid-encrypted message.
// The content key is wrapped once per party so either can later decrypt
// history with only their own private key.
type HybridMessage struct {
	// Nonce is the AES-GCM nonce.
	Nonce []byte
	// Ciphertext is the AEAD output, tag included.
	Ciphertext []byte
	// Signature is the PSS signature over nonce || ciphertext.
	Signature []byte
	// WrappedKeySender is the content key under the sender's public key.
	WrappedKeySender []byte
	// WrappedKeyRecipient is the content key under the recipient's public key.
	WrappedKeyRecipient []byte
}

// EncryptMessage performs the hybrid encryption of one message:
//
//  1. Fresh random content key and nonce.
//  2. AES-256-GCM encryption of the plaintext under the content key.
//  3. OAEP wrap of the content key for the recipient and, independently,
//     for the sender.
//  4. PSS signature over nonce || ciphertext, so verification binds
//     exactly the wire bytes and never requires decryption.
func EncryptMessage(plaintext []byte, senderPriv *rsa.PrivateKey, recipientPub *rsa.PublicKey) (*HybridMessage, error) {
	contentKey, err := NewContentKey()
	if err != nil {
		return nil, err
	}
	defer ZeroBytes(contentKey)

	nonce, err := NewNonce()
	if err != nil {
		return nil, err
	}

	ciphertext, err := encryptAESGCM(contentKey, nonce, plaintext)
	if err != nil {
		return nil, fmt.Errorf("encrypt content: %w", err)
	}

	wrappedRecipient, err := wrapContentKey(contentKey, recipientPub)
	if err != nil {
		return nil, fmt.Errorf("wrap key for recipient: %w", err)
	}
	wrappedSender, err := wrapContentKey(contentKey, &senderPriv.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("wrap key for sender: %w", err)
	}

	signature, err := Sign(signedBytes(nonce, ciphertext), senderPriv)
	if err != nil {
		return nil, fmt.Errorf("sign message: %w", err)
	}

	return &HybridMessage{
		Nonce:               nonce,
		Ciphertext:          ciphertext,
		Signature:           signature,
		WrappedKeySender:    wrappedSender,
		WrappedKeyRecipient: wrappedRecipient,
	}, nil
}

// DecryptMessage unwraps the content key from the slot matching the
// caller's role, decrypts the content, then independently verifies the
// signature over nonce || ciphertext under the sender's public key.
//
// A failed signature is expected adversarial input, not a fault: the
// plaintext is returned with verified=false and the caller decides how to
// surface it. AEAD authentication failure returns ErrDecryptionFailed.
func DecryptMessage(msg *HybridMessage, priv *rsa.PrivateKey, senderPub *rsa.PublicKey, isSender bool) ([]byte, bool, error) {
	wrapped := msg.WrappedKeyRecipient
	if isSender {
		wrapped = msg.WrappedKeySender
	}

	contentKey, err := unwrapContentKey(wrapped, priv)
	if err != nil {
		return nil, false, ErrDecryptionFailed
	}
	defer ZeroBytes(contentKey)

	plaintext, err := decryptAESGCM(contentKey, msg.Nonce, msg.Ciphertext)
	if err != nil {
		return nil, false, err
	}

	verified := Verify(signedBytes(msg.Nonce, msg.Ciphertext), msg.Signature, senderPub)
	return plaintext, verified, nil
}

// wrapContentKey encrypts the raw content key under pub with OAEP-SHA-256.
func wrapContentKey(contentKey []byte, pub *rsa.PublicKey) ([]byte, error) {
	return rsa.EncryptOAEP(sha256.New(), randSource(), pub, contentKey, nil)
}

func unwrapContentKey(wrapped []byte, priv *rsa.PrivateKey) ([]byte, error) {
	return rsa.DecryptOAEP(sha256.New(), nil, priv, wrapped, nil)
}

func signedBytes(nonce, ciphertext []byte) []byte {
	signed := make([]byte, 0, len(nonce)+len(ciphertext))
	signed = append(signed, nonce...)
	return append(signed, ciphertext...)
}
