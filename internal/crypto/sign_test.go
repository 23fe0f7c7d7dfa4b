package crypto

import (
	"bytes"
	"testing"
)

func TestSignVerify(t *testing.T) {
	kp := newTestKeyPair(t)

	tests := []struct {
		name    string
		content []byte
	}{
		{"short", []byte("hello")},
		{"empty", []byte{}},
		{"multi-kilobyte", bytes.Repeat([]byte("signed content "), 512)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := Sign(tt.content, kp.Private)
			if err != nil {
				t.Fatalf("Sign() error = %v", err)
			}
			if !Verify(tt.content, sig, &kp.Private.PublicKey) {
				t.Error("Verify() = false for a valid signature")
			}
		})
	}
}

func TestVerify_WrongKeypair(t *testing.T) {
	signer := newTestKeyPair(t)
	other := newTestKeyPair(t)

	sig, err := Sign([]byte("hello"), signer.Private)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if Verify([]byte("hello"), sig, &other.Private.PublicKey) {
		t.Error("Verify() = true under a different keypair")
	}
}

func TestVerify_ModifiedContent(t *testing.T) {
	kp := newTestKeyPair(t)

	sig, err := Sign([]byte("hello"), kp.Private)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if Verify([]byte("hello!"), sig, &kp.Private.PublicKey) {
		t.Error("Verify() = true for modified content")
	}
}

func TestVerify_FailsClosed(t *testing.T) {
	kp := newTestKeyPair(t)

	tests := []struct {
		name string
		sig  []byte
	}{
		{"empty", nil},
		{"garbage", []byte("not a signature")},
		{"truncated", make([]byte, RSASignatureSize/2)},
		{"all zero", make([]byte, RSASignatureSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Verify([]byte("hello"), tt.sig, &kp.Private.PublicKey) {
				t.Error("Verify() = true for malformed signature")
			}
		})
	}

	t.Run("nil key", func(t *testing.T) {
		sig, err := Sign([]byte("hello"), kp.Private)
		if err != nil {
			t.Fatalf("Sign() error = %v", err)
		}
		if Verify([]byte("hello"), sig, nil) {
			t.Error("Verify() = true with a nil public key")
		}
	})
}

func TestSign_Randomized(t *testing.T) {
	kp := newTestKeyPair(t)

	// PSS uses a fresh salt per signature; both remain valid.
	s1, err := Sign([]byte("hello"), kp.Private)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	s2, err := Sign([]byte("hello"), kp.Private)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if bytes.Equal(s1, s2) {
		t.Error("two PSS signatures of the same content are identical")
	}
	if !Verify([]byte("hello"), s1, &kp.Private.PublicKey) || !Verify([]byte("hello"), s2, &kp.Private.PublicKey) {
		t.Error("randomized signatures do not both verify")
	}
}
