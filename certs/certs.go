package certs

import (
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"time"
)

// Subject template fields fixed by issuer policy; only the common name
// varies per user.
const (
	SubjectOrganization = "CryptoChat"
	SubjectUnit         = "Users"
	SubjectCountry      = "US"
)

var (
	// ErrInvalidCertificate is returned when PEM certificate material
	// cannot be parsed.
	ErrInvalidCertificate = errors.New("invalid certificate")

	// ErrInvalidRequest is returned when PEM CSR material cannot be parsed.
	ErrInvalidRequest = errors.New("invalid certificate request")

	// ErrKeyMismatch is returned when a supplied public key does not
	// belong to the supplied private key.
	ErrKeyMismatch = errors.New("public key does not match private key")
)

// Info is the displayable summary of a certificate.
type Info struct {
	// Subject is the subject common name (the bound username).
	Subject string
	// Issuer is the issuer common name.
	Issuer string
	// ValidFrom is the start of the validity window.
	ValidFrom time.Time
	// ValidTo is the end of the validity window.
	ValidTo time.Time
	// Serial is the certificate serial number as lowercase hex.
	Serial string
}

// GetInfo extracts the displayable fields from a PEM certificate.
func GetInfo(certPEM string) (*Info, error) {
	cert, err := parseCertificate(certPEM)
	if err != nil {
		return nil, err
	}
	return &Info{
		Subject:   cert.Subject.CommonName,
		Issuer:    cert.Issuer.CommonName,
		ValidFrom: cert.NotBefore,
		ValidTo:   cert.NotAfter,
		Serial:    fmt.Sprintf("%x", cert.SerialNumber),
	}, nil
}

// ExtractPublicKey returns the subject public key of a PEM certificate as
// PKIX PEM. This is how the signed-plaintext mode obtains a counterparty's
// verification key without exchanging raw keys out of band.
func ExtractPublicKey(certPEM string) (string, error) {
	cert, err := parseCertificate(certPEM)
	if err != nil {
		return "", err
	}
	return marshalPublicKeyPEM(cert.PublicKey)
}

// IssuedBy reports whether cert carries a valid CA signature from caCert.
// Parse failures and signature mismatches both resolve to false; trust
// evaluation never throws.
func IssuedBy(certPEM, caCertPEM string) bool {
	cert, err := parseCertificate(certPEM)
	if err != nil {
		return false
	}
	ca, err := parseCertificate(caCertPEM)
	if err != nil {
		return false
	}
	return ca.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature) == nil
}

// ExpiredAt reports whether the certificate's validity window has closed:
// strictly now after NotAfter. A certificate expiring this instant is not
// yet expired.
func ExpiredAt(certPEM string, now time.Time) (bool, error) {
	cert, err := parseCertificate(certPEM)
	if err != nil {
		return false, err
	}
	return now.After(cert.NotAfter), nil
}

// RequestMatches reports whether cert was issued from csr by comparing
// their public keys. Fail-closed on parse failure.
func RequestMatches(csrPEM, certPEM string) bool {
	csr, err := parseRequest(csrPEM)
	if err != nil {
		return false
	}
	cert, err := parseCertificate(certPEM)
	if err != nil {
		return false
	}

	csrKey, err := x509.MarshalPKIXPublicKey(csr.PublicKey)
	if err != nil {
		return false
	}
	certKey, err := x509.MarshalPKIXPublicKey(cert.PublicKey)
	if err != nil {
		return false
	}
	return string(csrKey) == string(certKey)
}

// BuildRequest builds a certificate signing request binding commonName to
// the keypair's public key, self-signed with the private key as proof of
// possession. Subject fields other than the common name follow the fixed
// issuer-policy template.
func BuildRequest(privateKeyPEM, publicKeyPEM, commonName string) (string, error) {
	priv, err := parsePrivateKeyPEM(privateKeyPEM)
	if err != nil {
		return "", err
	}
	pub, err := parsePublicKeyPEM(publicKeyPEM)
	if err != nil {
		return "", err
	}
	if pub.N.Cmp(priv.N) != 0 || pub.E != priv.E {
		return "", ErrKeyMismatch
	}

	template := &x509.CertificateRequest{
		Subject: pkix.Name{
			CommonName:         commonName,
			Organization:       []string{SubjectOrganization},
			OrganizationalUnit: []string{SubjectUnit},
			Country:            []string{SubjectCountry},
		},
		SignatureAlgorithm: x509.SHA256WithRSA,
	}

	der, err := x509.CreateCertificateRequest(rand.Reader, template, priv)
	if err != nil {
		return "", fmt.Errorf("create certificate request: %w", err)
	}
	return encodePEM("CERTIFICATE REQUEST", der), nil
}
