package chatcrypt

import (
	"encoding/json"
	"fmt"

	icrypto "github.com/chatseal/chatcrypt-go/internal/crypto"
)

// EnvelopeVersion is the current wire envelope version.
const EnvelopeVersion = 1

// EnvelopeKind distinguishes the two mutually exclusive envelope shapes.
// The kind is decided once at decode time, never re-inspected ad hoc
// downstream.
type EnvelopeKind int

const (
	// EnvelopeHybrid carries AEAD ciphertext plus a content key wrapped
	// once per party. Confidentiality and authenticity are both
	// end-to-end.
	EnvelopeHybrid EnvelopeKind = iota
	// EnvelopeSignedPlain carries plaintext whose confidentiality is
	// delegated to the transport boundary; the client's only
	// cryptographic duty is authenticity verification.
	EnvelopeSignedPlain
)

// String returns the kind name.
func (k EnvelopeKind) String() string {
	switch k {
	case EnvelopeHybrid:
		return "hybrid"
	case EnvelopeSignedPlain:
		return "signed-plain"
	default:
		return "unknown"
	}
}

// Envelope is the wire-level container for one message's cryptographic
// payload. Nonce and Ciphertext are hex; Signature and the wrapped keys
// are base64; Content is plaintext and set only for signed-plain
// envelopes.
type Envelope struct {
	Kind EnvelopeKind

	Nonce               string
	Ciphertext          string
	Signature           string
	WrappedKeySender    string
	WrappedKeyRecipient string

	Content string
}

// wireEnvelope is the JSON shape shared by both kinds. The receiver
// determines the kind from the presence of the wrapped-key fields.
type wireEnvelope struct {
	V                   int    `json:"v"`
	Cipher              string `json:"cipher,omitempty"`
	Nonce               string `json:"nonce,omitempty"`
	Ciphertext          string `json:"ciphertext,omitempty"`
	Signature           string `json:"signature,omitempty"`
	WrappedKeySender    string `json:"wrapped_key_sender,omitempty"`
	WrappedKeyRecipient string `json:"wrapped_key_recipient,omitempty"`
	Content             string `json:"content,omitempty"`
}

// DecodeEnvelope parses a wire envelope and decides its kind once.
// Unknown versions, unknown ciphers, and shapes mixing or missing the
// hybrid fields are rejected here so downstream code never re-inspects
// field presence.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var w wireEnvelope
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if w.V != EnvelopeVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidEnvelope, w.V)
	}

	hybrid := w.WrappedKeySender != "" || w.WrappedKeyRecipient != ""
	if hybrid {
		if w.WrappedKeySender == "" || w.WrappedKeyRecipient == "" {
			return nil, fmt.Errorf("%w: missing wrapped-key slot", ErrInvalidEnvelope)
		}
		if w.Nonce == "" || w.Ciphertext == "" || w.Signature == "" {
			return nil, fmt.Errorf("%w: incomplete hybrid envelope", ErrInvalidEnvelope)
		}
		if w.Content != "" {
			return nil, fmt.Errorf("%w: hybrid envelope carries plaintext content", ErrInvalidEnvelope)
		}
		if w.Cipher != icrypto.CipherLabel {
			return nil, fmt.Errorf("%w: unsupported cipher %q", ErrInvalidEnvelope, w.Cipher)
		}
		return &Envelope{
			Kind:                EnvelopeHybrid,
			Nonce:               w.Nonce,
			Ciphertext:          w.Ciphertext,
			Signature:           w.Signature,
			WrappedKeySender:    w.WrappedKeySender,
			WrappedKeyRecipient: w.WrappedKeyRecipient,
		}, nil
	}

	return &Envelope{
		Kind:      EnvelopeSignedPlain,
		Content:   w.Content,
		Signature: w.Signature,
	}, nil
}

// Encode serializes the envelope to its wire JSON.
func (e *Envelope) Encode() ([]byte, error) {
	w := wireEnvelope{V: EnvelopeVersion}

	switch e.Kind {
	case EnvelopeHybrid:
		w.Cipher = icrypto.CipherLabel
		w.Nonce = e.Nonce
		w.Ciphertext = e.Ciphertext
		w.Signature = e.Signature
		w.WrappedKeySender = e.WrappedKeySender
		w.WrappedKeyRecipient = e.WrappedKeyRecipient
	case EnvelopeSignedPlain:
		w.Content = e.Content
		w.Signature = e.Signature
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidEnvelope, e.Kind)
	}

	return json.Marshal(w)
}

// Signed reports whether the envelope carries a signature. Unsigned
// content must never be treated as authenticated.
func (e *Envelope) Signed() bool {
	return e.Signature != ""
}
