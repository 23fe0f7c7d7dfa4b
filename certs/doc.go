// Package certs provides read-only trust evaluation for the certificate
// upgrade path: parsing certificates, extracting subject public keys,
// checking expiry and CA signatures, and building certificate signing
// requests.
//
// The package never issues or mutates certificates; issuance belongs to
// the certificate authority. Trust checks (IssuedBy, RequestMatches) are
// fail-closed booleans because a malformed or forged certificate is
// routine adversarial input, not a fault.
package certs
