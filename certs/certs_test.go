package certs

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"
)

type testCA struct {
	key     *rsa.PrivateKey
	cert    *x509.Certificate
	certPEM string
}

func newTestCA(t *testing.T, commonName string) *testCA {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate CA key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: commonName, Organization: []string{SubjectOrganization}},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create CA certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse CA certificate: %v", err)
	}

	return &testCA{
		key:     key,
		cert:    cert,
		certPEM: string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})),
	}
}

func (ca *testCA) issue(t *testing.T, commonName string, pub *rsa.PublicKey, notBefore, notAfter time.Time) string {
	t.Helper()

	template := &x509.Certificate{
		SerialNumber: big.NewInt(0xbeef42),
		Subject: pkix.Name{
			CommonName:         commonName,
			Organization:       []string{SubjectOrganization},
			OrganizationalUnit: []string{SubjectUnit},
		},
		NotBefore: notBefore,
		NotAfter:  notAfter,
		KeyUsage:  x509.KeyUsageDigitalSignature,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, ca.cert, pub, ca.key)
	if err != nil {
		t.Fatalf("issue certificate: %v", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
}

func newUserKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate user key: %v", err)
	}
	return key
}

func keyPEMs(t *testing.T, key *rsa.PrivateKey) (privPEM, pubPEM string) {
	t.Helper()
	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal private key: %v", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})),
		string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}))
}

func TestGetInfo(t *testing.T) {
	ca := newTestCA(t, "CryptoChat Root CA")
	user := newUserKey(t)

	notBefore := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	notAfter := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	certPEM := ca.issue(t, "alice", &user.PublicKey, notBefore, notAfter)

	info, err := GetInfo(certPEM)
	if err != nil {
		t.Fatalf("GetInfo() error = %v", err)
	}

	if info.Subject != "alice" {
		t.Errorf("Subject = %q, want %q", info.Subject, "alice")
	}
	if info.Issuer != "CryptoChat Root CA" {
		t.Errorf("Issuer = %q, want %q", info.Issuer, "CryptoChat Root CA")
	}
	if !info.ValidFrom.Equal(notBefore) {
		t.Errorf("ValidFrom = %v, want %v", info.ValidFrom, notBefore)
	}
	if !info.ValidTo.Equal(notAfter) {
		t.Errorf("ValidTo = %v, want %v", info.ValidTo, notAfter)
	}
	if info.Serial != "beef42" {
		t.Errorf("Serial = %q, want %q", info.Serial, "beef42")
	}
}

func TestGetInfo_Malformed(t *testing.T) {
	if _, err := GetInfo("not a certificate"); !errors.Is(err, ErrInvalidCertificate) {
		t.Errorf("expected ErrInvalidCertificate, got %v", err)
	}
}

func TestExtractPublicKey(t *testing.T) {
	ca := newTestCA(t, "CryptoChat Root CA")
	user := newUserKey(t)
	_, pubPEM := keyPEMs(t, user)

	certPEM := ca.issue(t, "alice", &user.PublicKey, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))

	extracted, err := ExtractPublicKey(certPEM)
	if err != nil {
		t.Fatalf("ExtractPublicKey() error = %v", err)
	}
	if extracted != pubPEM {
		t.Error("extracted public key does not match the subject key")
	}
	if !strings.HasPrefix(extracted, "-----BEGIN PUBLIC KEY-----") {
		t.Error("extracted key is not PKIX PEM")
	}
}

func TestIssuedBy(t *testing.T) {
	ca := newTestCA(t, "CryptoChat Root CA")
	otherCA := newTestCA(t, "Impostor CA")
	user := newUserKey(t)

	certPEM := ca.issue(t, "alice", &user.PublicKey, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))

	tests := []struct {
		name string
		cert string
		ca   string
		want bool
	}{
		{"issued by this CA", certPEM, ca.certPEM, true},
		{"different CA key", certPEM, otherCA.certPEM, false},
		{"garbage certificate", "garbage", ca.certPEM, false},
		{"garbage CA", certPEM, "garbage", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IssuedBy(tt.cert, tt.ca); got != tt.want {
				t.Errorf("IssuedBy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpiredAt(t *testing.T) {
	ca := newTestCA(t, "CryptoChat Root CA")
	user := newUserKey(t)

	notAfter := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	certPEM := ca.issue(t, "alice", &user.PublicKey, notAfter.Add(-24*time.Hour), notAfter)

	// x509 truncates validity to seconds.
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"well before", notAfter.Add(-time.Hour), false},
		{"exactly notAfter", notAfter, false},
		{"just after", notAfter.Add(time.Second), true},
		{"well after", notAfter.Add(24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpiredAt(certPEM, tt.now)
			if err != nil {
				t.Fatalf("ExpiredAt() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExpiredAt(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}

	t.Run("malformed", func(t *testing.T) {
		if _, err := ExpiredAt("garbage", time.Now()); !errors.Is(err, ErrInvalidCertificate) {
			t.Errorf("expected ErrInvalidCertificate, got %v", err)
		}
	})
}

func TestBuildRequest(t *testing.T) {
	user := newUserKey(t)
	privPEM, pubPEM := keyPEMs(t, user)

	csrPEM, err := BuildRequest(privPEM, pubPEM, "alice")
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}

	block, _ := pem.Decode([]byte(csrPEM))
	if block == nil || block.Type != "CERTIFICATE REQUEST" {
		t.Fatal("CSR is not a CERTIFICATE REQUEST PEM block")
	}
	csr, err := x509.ParseCertificateRequest(block.Bytes)
	if err != nil {
		t.Fatalf("parse CSR: %v", err)
	}

	if csr.Subject.CommonName != "alice" {
		t.Errorf("CommonName = %q, want %q", csr.Subject.CommonName, "alice")
	}
	if len(csr.Subject.Organization) == 0 || csr.Subject.Organization[0] != SubjectOrganization {
		t.Errorf("Organization = %v, want %q", csr.Subject.Organization, SubjectOrganization)
	}

	// Proof of possession: the CSR is self-signed with the private key.
	if err := csr.CheckSignature(); err != nil {
		t.Errorf("CSR signature check failed: %v", err)
	}
}

func TestBuildRequest_KeyMismatch(t *testing.T) {
	alice := newUserKey(t)
	bob := newUserKey(t)
	alicePriv, _ := keyPEMs(t, alice)
	_, bobPub := keyPEMs(t, bob)

	_, err := BuildRequest(alicePriv, bobPub, "alice")
	if !errors.Is(err, ErrKeyMismatch) {
		t.Errorf("expected ErrKeyMismatch, got %v", err)
	}
}

func TestRequestMatches(t *testing.T) {
	ca := newTestCA(t, "CryptoChat Root CA")
	alice := newUserKey(t)
	bob := newUserKey(t)
	alicePriv, alicePub := keyPEMs(t, alice)

	csrPEM, err := BuildRequest(alicePriv, alicePub, "alice")
	if err != nil {
		t.Fatalf("BuildRequest() error = %v", err)
	}

	aliceCert := ca.issue(t, "alice", &alice.PublicKey, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	bobCert := ca.issue(t, "bob", &bob.PublicKey, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))

	if !RequestMatches(csrPEM, aliceCert) {
		t.Error("RequestMatches() = false for the certificate issued from this CSR")
	}
	if RequestMatches(csrPEM, bobCert) {
		t.Error("RequestMatches() = true for a certificate with a different key")
	}
	if RequestMatches("garbage", aliceCert) {
		t.Error("RequestMatches() = true for a garbage CSR")
	}
}
