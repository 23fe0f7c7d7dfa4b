package chatcrypt

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatseal/chatcrypt-go/certs"
	icrypto "github.com/chatseal/chatcrypt-go/internal/crypto"
)

// Role identifies which wrapped-key slot of a hybrid envelope belongs to
// the caller.
type Role int

const (
	// RoleRecipient decrypts through the recipient slot.
	RoleRecipient Role = iota
	// RoleSender decrypts through the sender slot, enabling own-history
	// decryption without the recipient's key.
	RoleSender
)

// DecryptResult is the outcome of decrypting one received envelope.
// Plaintext recovery and signature verification are independent: a bad
// signature never withholds the plaintext.
type DecryptResult struct {
	// Plaintext is the recovered message content.
	Plaintext string
	// Verified reports whether the sender's signature checked out. For a
	// signed-plain envelope without a signature this is always false.
	Verified bool
}

// EncryptForSend hybrid-encrypts a message for the given recipient public
// key. The content key is wrapped for both parties, so the sender can
// decrypt their own history later. Requires an unlocked identity.
func (e *Engine) EncryptForSend(plaintext, recipientPublicKeyPEM string) (*Envelope, error) {
	priv, err := e.snapshotPrivateKey("encrypt")
	if err != nil {
		return nil, err
	}
	recipientPub, err := icrypto.ParsePublicKeyPEM(recipientPublicKeyPEM)
	if err != nil {
		return nil, ErrInvalidKey
	}

	msg, err := icrypto.EncryptMessage([]byte(plaintext), priv, recipientPub)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Kind:                EnvelopeHybrid,
		Nonce:               icrypto.ToHex(msg.Nonce),
		Ciphertext:          icrypto.ToHex(msg.Ciphertext),
		Signature:           icrypto.ToBase64(msg.Signature),
		WrappedKeySender:    icrypto.ToBase64(msg.WrappedKeySender),
		WrappedKeyRecipient: icrypto.ToBase64(msg.WrappedKeyRecipient),
	}, nil
}

// EncryptForUser looks the recipient's public key up in the directory and
// hybrid-encrypts for it. Requires a configured directory.
func (e *Engine) EncryptForUser(ctx context.Context, userID, plaintext string) (*Envelope, error) {
	e.mu.RLock()
	directory := e.directory
	e.mu.RUnlock()
	if directory == nil {
		return nil, ErrNoDirectory
	}

	recipientKey, err := directory.GetPublicKey(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup recipient key: %w", err)
	}
	return e.EncryptForSend(plaintext, recipientKey)
}

// DecryptReceived decrypts one envelope and verifies its signature under
// the sender's public key.
//
// For a hybrid envelope the engine must be unlocked and role selects the
// wrapped-key slot; AEAD failure returns ErrDecryptionFailed. For a
// signed-plain envelope no private key is needed in any custody state:
// the plaintext is taken as-is and only the signature is checked.
func (e *Engine) DecryptReceived(env *Envelope, senderPublicKeyPEM string, role Role) (*DecryptResult, error) {
	if env.Kind == EnvelopeSignedPlain {
		verified := env.Signed() &&
			VerifySignature(env.Content, env.Signature, senderPublicKeyPEM)
		return &DecryptResult{Plaintext: env.Content, Verified: verified}, nil
	}

	priv, err := e.snapshotPrivateKey("decrypt")
	if err != nil {
		return nil, err
	}
	senderPub, err := icrypto.ParsePublicKeyPEM(senderPublicKeyPEM)
	if err != nil {
		return nil, ErrInvalidKey
	}

	msg, err := decodeHybrid(env)
	if err != nil {
		return nil, err
	}

	plaintext, verified, err := icrypto.DecryptMessage(msg, priv, senderPub, role == RoleSender)
	if err != nil {
		return nil, &DecryptionError{Stage: "aead", Err: err}
	}
	return &DecryptResult{Plaintext: string(plaintext), Verified: verified}, nil
}

// decodeHybrid decodes the wire encodings of a hybrid envelope into raw
// message components.
func decodeHybrid(env *Envelope) (*icrypto.HybridMessage, error) {
	nonce, err := icrypto.FromHex(env.Nonce)
	if err != nil {
		return nil, &DecryptionError{Stage: "decode", Err: err}
	}
	ciphertext, err := icrypto.FromHex(env.Ciphertext)
	if err != nil {
		return nil, &DecryptionError{Stage: "decode", Err: err}
	}
	signature, err := icrypto.FromBase64(env.Signature)
	if err != nil {
		return nil, &DecryptionError{Stage: "decode", Err: err}
	}
	wrappedSender, err := icrypto.FromBase64(env.WrappedKeySender)
	if err != nil {
		return nil, &DecryptionError{Stage: "decode", Err: err}
	}
	wrappedRecipient, err := icrypto.FromBase64(env.WrappedKeyRecipient)
	if err != nil {
		return nil, &DecryptionError{Stage: "decode", Err: err}
	}
	return &icrypto.HybridMessage{
		Nonce:               nonce,
		Ciphertext:          ciphertext,
		Signature:           signature,
		WrappedKeySender:    wrappedSender,
		WrappedKeyRecipient: wrappedRecipient,
	}, nil
}

// SignPlaintext signs content with the identity private key and returns
// the base64 signature. Used for the signed-plain message mode. Requires
// an unlocked identity.
func (e *Engine) SignPlaintext(content string) (string, error) {
	priv, err := e.snapshotPrivateKey("sign")
	if err != nil {
		return "", err
	}
	sig, err := icrypto.Sign([]byte(content), priv)
	if err != nil {
		return "", err
	}
	return icrypto.ToBase64(sig), nil
}

// SignedEnvelope builds a signed-plain envelope for content. The
// plaintext travels in the clear; only authenticity is end-to-end.
func (e *Engine) SignedEnvelope(content string) (*Envelope, error) {
	sig, err := e.SignPlaintext(content)
	if err != nil {
		return nil, err
	}
	return &Envelope{Kind: EnvelopeSignedPlain, Content: content, Signature: sig}, nil
}

// VerifySignature verifies a base64 signature over content. The verifier
// accepts either a public key PEM or a certificate PEM, extracting the
// subject key from the latter. Any failure, including malformed input,
// resolves to false.
func VerifySignature(content, signatureB64, keyOrCertPEM string) bool {
	keyPEM := keyOrCertPEM
	if strings.Contains(keyOrCertPEM, "BEGIN CERTIFICATE") {
		extracted, err := certs.ExtractPublicKey(keyOrCertPEM)
		if err != nil {
			return false
		}
		keyPEM = extracted
	}

	pub, err := icrypto.ParsePublicKeyPEM(keyPEM)
	if err != nil {
		return false
	}
	sig, err := icrypto.FromBase64(signatureB64)
	if err != nil {
		return false
	}
	return icrypto.Verify([]byte(content), sig, pub)
}

// BuildCertificateRequest builds a CSR binding commonName to the loaded
// identity keypair. Requires an unlocked identity; the CSR is signed with
// the private key as proof of possession.
func (e *Engine) BuildCertificateRequest(commonName string) (string, error) {
	priv, err := e.snapshotPrivateKey("certificate request")
	if err != nil {
		return "", err
	}

	e.mu.RLock()
	pubPEM := e.publicKeyPEM
	e.mu.RUnlock()

	privPEM, err := icrypto.MarshalPrivateKeyPEM(priv)
	if err != nil {
		return "", err
	}

	csr, err := certs.BuildRequest(privPEM, pubPEM, commonName)
	if err != nil {
		return "", &CertificateError{Reason: "build request", Err: err}
	}
	return csr, nil
}
