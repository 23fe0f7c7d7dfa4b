package chatcrypt

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"KDFError", &KDFError{Err: errors.New("boom")}, ErrKDF},
		{"StateError", &StateError{Op: "sign", State: StateLocked}, ErrInvalidState},
		{"DecryptionError", &DecryptionError{Stage: "aead"}, ErrDecryptionFailed},
		{"CertificateError", &CertificateError{Reason: "parse"}, ErrCertificateInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false", tt.err)
			}
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(wrapped, sentinel) = false")
			}
		})
	}
}

func TestErrorsImplementMarkerInterface(t *testing.T) {
	typed := []error{
		&KDFError{Err: errors.New("boom")},
		&StateError{Op: "sign", State: StateLocked},
		&DecryptionError{Stage: "decode"},
		&CertificateError{Reason: "parse"},
	}
	for _, err := range typed {
		var marker ChatCryptError
		if !errors.As(err, &marker) {
			t.Errorf("%T does not implement ChatCryptError", err)
		}
	}
}

func TestStateErrorMessage(t *testing.T) {
	err := &StateError{Op: "encrypt", State: StateLocked}
	msg := err.Error()
	if !strings.Contains(msg, "encrypt") || !strings.Contains(msg, "locked") {
		t.Errorf("Error() = %q, want op and state named", msg)
	}
}

func TestDecryptionErrorUnwrap(t *testing.T) {
	inner := errors.New("cipher: message authentication failed")
	err := &DecryptionError{Stage: "aead", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("Unwrap() does not expose the inner error")
	}
	if !strings.Contains(err.Error(), "aead") {
		t.Errorf("Error() = %q, want stage named", err.Error())
	}
}
