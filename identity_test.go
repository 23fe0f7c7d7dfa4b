package chatcrypt

import (
	"context"
	"errors"
	"testing"
)

func TestExportImportIdentity(t *testing.T) {
	original, created := newUnlockedEngine(t)

	exported, err := original.ExportIdentity()
	if err != nil {
		t.Fatalf("ExportIdentity() error = %v", err)
	}
	if exported.Version != 1 {
		t.Errorf("Version = %d, want 1", exported.Version)
	}
	if exported.IdentityID != created.IdentityID {
		t.Error("export does not carry the identity ID")
	}
	if exported.EncryptedPrivateKey != created.EncryptedPrivateKey {
		t.Error("export does not carry the encrypted blob")
	}

	other := New()
	if err := other.ImportIdentity(exported); err != nil {
		t.Fatalf("ImportIdentity() error = %v", err)
	}
	if got := other.State(); got != StateLocked {
		t.Fatalf("State() after import = %v, want %v", got, StateLocked)
	}
	if err := other.Unlock(context.Background(), testPassword); err != nil {
		t.Fatalf("Unlock() after import error = %v", err)
	}

	// Export works while locked too; only the blob travels.
	original.Lock()
	if _, err := original.ExportIdentity(); err != nil {
		t.Errorf("ExportIdentity() while locked: error = %v", err)
	}

	original.Wipe()
	if _, err := original.ExportIdentity(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("ExportIdentity() after wipe: err = %v, want ErrInvalidState", err)
	}
}

func TestImportIdentityValidation(t *testing.T) {
	_, created := newUnlockedEngine(t)

	valid := func() *ExportedIdentity {
		return &ExportedIdentity{
			Version:             1,
			IdentityID:          created.IdentityID,
			PublicKeyPEM:        created.PublicKeyPEM,
			EncryptedPrivateKey: created.EncryptedPrivateKey,
			SaltHex:             created.SaltHex,
		}
	}

	tests := []struct {
		name   string
		mutate func(*ExportedIdentity)
	}{
		{"unsupported version", func(x *ExportedIdentity) { x.Version = 2 }},
		{"missing public key", func(x *ExportedIdentity) { x.PublicKeyPEM = "" }},
		{"missing blob", func(x *ExportedIdentity) { x.EncryptedPrivateKey = "" }},
		{"missing salt", func(x *ExportedIdentity) { x.SaltHex = "" }},
		{"malformed public key", func(x *ExportedIdentity) { x.PublicKeyPEM = "garbage" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := valid()
			tt.mutate(x)
			e := New()
			if err := e.ImportIdentity(x); !errors.Is(err, ErrInvalidImportData) {
				t.Errorf("ImportIdentity() error = %v, want ErrInvalidImportData", err)
			}
			if got := e.State(); got != StateNoIdentity {
				t.Errorf("failed import changed state to %v", got)
			}
		})
	}
}
