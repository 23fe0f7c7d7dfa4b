package chatcrypt

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeEnvelopeHybrid(t *testing.T) {
	wire := `{
		"v": 1,
		"cipher": "aes-256-gcm",
		"nonce": "000102030405060708090a0b",
		"ciphertext": "deadbeef",
		"signature": "c2ln",
		"wrapped_key_sender": "a2V5MQ==",
		"wrapped_key_recipient": "a2V5Mg=="
	}`
	env, err := DecodeEnvelope([]byte(wire))
	if err != nil {
		t.Fatalf("DecodeEnvelope() error = %v", err)
	}
	if env.Kind != EnvelopeHybrid {
		t.Errorf("Kind = %v, want %v", env.Kind, EnvelopeHybrid)
	}
	if !env.Signed() {
		t.Error("Signed() = false")
	}
	if env.Content != "" {
		t.Error("hybrid envelope carries content")
	}
}

func TestDecodeEnvelopeSignedPlain(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"v":1,"content":"hello","signature":"c2ln"}`))
	if err != nil {
		t.Fatalf("DecodeEnvelope() error = %v", err)
	}
	if env.Kind != EnvelopeSignedPlain {
		t.Errorf("Kind = %v, want %v", env.Kind, EnvelopeSignedPlain)
	}
	if env.Content != "hello" {
		t.Errorf("Content = %q, want %q", env.Content, "hello")
	}

	// Unsigned plain content decodes, but reports itself unsigned.
	env, err = DecodeEnvelope([]byte(`{"v":1,"content":"hello"}`))
	if err != nil {
		t.Fatalf("DecodeEnvelope() error = %v", err)
	}
	if env.Signed() {
		t.Error("Signed() = true without a signature")
	}
}

func TestDecodeEnvelopeRejects(t *testing.T) {
	tests := []struct {
		name string
		wire string
	}{
		{
			name: "not JSON",
			wire: `{{{`,
		},
		{
			name: "unknown version",
			wire: `{"v":2,"content":"hi"}`,
		},
		{
			name: "missing version",
			wire: `{"content":"hi"}`,
		},
		{
			name: "one wrapped key slot",
			wire: `{"v":1,"cipher":"aes-256-gcm","nonce":"00","ciphertext":"00","signature":"c2ln","wrapped_key_sender":"a2V5"}`,
		},
		{
			name: "hybrid missing nonce",
			wire: `{"v":1,"cipher":"aes-256-gcm","ciphertext":"00","signature":"c2ln","wrapped_key_sender":"a2V5","wrapped_key_recipient":"a2V5"}`,
		},
		{
			name: "hybrid missing signature",
			wire: `{"v":1,"cipher":"aes-256-gcm","nonce":"00","ciphertext":"00","wrapped_key_sender":"a2V5","wrapped_key_recipient":"a2V5"}`,
		},
		{
			name: "hybrid with plaintext content",
			wire: `{"v":1,"cipher":"aes-256-gcm","nonce":"00","ciphertext":"00","signature":"c2ln","wrapped_key_sender":"a2V5","wrapped_key_recipient":"a2V5","content":"leak"}`,
		},
		{
			name: "unknown cipher",
			wire: `{"v":1,"cipher":"rot13","nonce":"00","ciphertext":"00","signature":"c2ln","wrapped_key_sender":"a2V5","wrapped_key_recipient":"a2V5"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeEnvelope([]byte(tt.wire)); !errors.Is(err, ErrInvalidEnvelope) {
				t.Errorf("DecodeEnvelope() error = %v, want ErrInvalidEnvelope", err)
			}
		})
	}
}

func TestEnvelopeEncodeRoundTrip(t *testing.T) {
	original := &Envelope{
		Kind:                EnvelopeHybrid,
		Nonce:               "000102030405060708090a0b",
		Ciphertext:          "deadbeef",
		Signature:           "c2ln",
		WrappedKeySender:    "a2V5MQ==",
		WrappedKeyRecipient: "a2V5Mg==",
	}
	wire, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(string(wire), `"cipher":"aes-256-gcm"`) {
		t.Error("encoded hybrid envelope missing cipher label")
	}

	decoded, err := DecodeEnvelope(wire)
	if err != nil {
		t.Fatalf("DecodeEnvelope() error = %v", err)
	}
	if *decoded != *original {
		t.Errorf("round trip mismatch: %+v != %+v", decoded, original)
	}

	plain := &Envelope{Kind: EnvelopeSignedPlain, Content: "hi", Signature: "c2ln"}
	wire, err = plain.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, err = DecodeEnvelope(wire)
	if err != nil {
		t.Fatalf("DecodeEnvelope() error = %v", err)
	}
	if *decoded != *plain {
		t.Errorf("round trip mismatch: %+v != %+v", decoded, plain)
	}
}

func TestEnvelopeEncodeUnknownKind(t *testing.T) {
	bad := &Envelope{Kind: EnvelopeKind(99)}
	if _, err := bad.Encode(); !errors.Is(err, ErrInvalidEnvelope) {
		t.Errorf("Encode() error = %v, want ErrInvalidEnvelope", err)
	}
}
