package chatcrypt

import (
	"context"
	"sync"

	"github.com/chatseal/chatcrypt-go/certs"
)

// VerifyOutcome is the three-valued result of sender verification.
// "Invalid" and "unverifiable" are deliberately distinct: the first means
// the cryptography actively failed, the second means there was nothing
// trustworthy to check against.
type VerifyOutcome string

const (
	// VerifyVerified means the signature checked out under a trusted
	// certificate key.
	VerifyVerified VerifyOutcome = "verified"
	// VerifyInvalid means a check actively failed: bad signature, revoked
	// or expired certificate, or a certificate not issued by the pinned CA.
	VerifyInvalid VerifyOutcome = "invalid"
	// VerifyUnverifiable means no trustworthy key material was available:
	// unsigned message, no certificate, or no pinned CA.
	VerifyUnverifiable VerifyOutcome = "unverifiable"
)

// VerifyResult is the outcome of verifying one message against its
// sender's certificate, with a display-ready reason.
type VerifyResult struct {
	Outcome VerifyOutcome
	Reason  string
}

// trustEntry caches one sender's certificate trust evaluation. The entry
// is valid only while the directory reports the same certificate status
// it was computed under.
type trustEntry struct {
	status  CertStatus
	trusted bool
	keyPEM  string
	// outcome and reason describe the failure when trusted is false.
	outcome VerifyOutcome
	reason  string
}

// trustCache memoizes per-sender certificate evaluations for the session.
// Pure optimization: every entry is recomputable from the directory.
type trustCache struct {
	mu      sync.Mutex
	entries map[string]trustEntry
}

func newTrustCache() *trustCache {
	return &trustCache{entries: make(map[string]trustEntry)}
}

func (c *trustCache) get(senderID string, status CertStatus) (trustEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[senderID]
	if !ok || entry.status != status {
		return trustEntry{}, false
	}
	return entry, true
}

func (c *trustCache) put(senderID string, entry trustEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[senderID] = entry
}

func (c *trustCache) invalidate(senderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, senderID)
}

func (c *trustCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]trustEntry)
}

// InvalidateSender drops the cached trust evaluation for one sender.
// Called when the application learns out of band that a sender's
// certificate status changed.
func (e *Engine) InvalidateSender(senderID string) {
	if e.trust == nil {
		return
	}
	e.trust.invalidate(senderID)
	e.log.Debug().Str("sender_id", senderID).Msg("trust cache invalidated")
}

// VerifyFromSender verifies a received envelope's signature against the
// sender's certificate from the directory.
//
// The certificate trust evaluation (CA issuance, expiry, status) is
// cached per sender and recomputed whenever the directory reports a
// different status; the signature itself is checked per message. The
// result never blocks message display, it only labels it.
func (e *Engine) VerifyFromSender(ctx context.Context, senderID string, env *Envelope) (*VerifyResult, error) {
	e.mu.RLock()
	directory := e.directory
	e.mu.RUnlock()
	if directory == nil {
		return nil, ErrNoDirectory
	}

	if !env.Signed() {
		return &VerifyResult{Outcome: VerifyUnverifiable, Reason: "message is unsigned"}, nil
	}

	lookup, err := directory.GetCertificate(ctx, senderID)
	if err != nil {
		return &VerifyResult{Outcome: VerifyUnverifiable, Reason: "certificate lookup failed"}, nil
	}

	entry, ok := trustEntry{}, false
	if e.trust != nil {
		entry, ok = e.trust.get(senderID, lookup.Status)
	}
	if !ok {
		entry = e.evaluateCertificate(lookup)
		if e.trust != nil {
			e.trust.put(senderID, entry)
			e.log.Debug().
				Str("sender_id", senderID).
				Str("status", string(lookup.Status)).
				Bool("trusted", entry.trusted).
				Msg("certificate trust evaluated")
		}
	}

	if !entry.trusted {
		return &VerifyResult{Outcome: entry.outcome, Reason: entry.reason}, nil
	}

	content, err := signedContent(env)
	if err != nil {
		return &VerifyResult{Outcome: VerifyInvalid, Reason: "envelope encoding invalid"}, nil
	}
	if !VerifySignature(content, env.Signature, entry.keyPEM) {
		return &VerifyResult{Outcome: VerifyInvalid, Reason: "signature verification failed"}, nil
	}
	return &VerifyResult{Outcome: VerifyVerified, Reason: "signed by certificate holder"}, nil
}

// signedContent returns the exact bytes a signature covers: the plaintext
// for signed-plain envelopes, nonce || ciphertext for hybrid ones.
func signedContent(env *Envelope) (string, error) {
	if env.Kind == EnvelopeSignedPlain {
		return env.Content, nil
	}
	msg, err := decodeHybrid(env)
	if err != nil {
		return "", err
	}
	return string(msg.Nonce) + string(msg.Ciphertext), nil
}

// evaluateCertificate computes the trust entry for one directory lookup.
func (e *Engine) evaluateCertificate(lookup *CertificateLookup) trustEntry {
	untrusted := func(outcome VerifyOutcome, reason string) trustEntry {
		return trustEntry{status: lookup.Status, outcome: outcome, reason: reason}
	}

	switch lookup.Status {
	case CertStatusRevoked:
		return untrusted(VerifyInvalid, "certificate revoked")
	case CertStatusExpired:
		return untrusted(VerifyInvalid, "certificate expired")
	case CertStatusNone, CertStatusPending:
		return untrusted(VerifyUnverifiable, "sender has no active certificate")
	}

	if lookup.CertificatePEM == "" {
		return untrusted(VerifyUnverifiable, "sender has no active certificate")
	}
	if e.caCertPEM == "" {
		return untrusted(VerifyUnverifiable, "no trusted CA configured")
	}
	if !certs.IssuedBy(lookup.CertificatePEM, e.caCertPEM) {
		return untrusted(VerifyInvalid, "certificate not issued by trusted CA")
	}
	expired, err := certs.ExpiredAt(lookup.CertificatePEM, e.clock())
	if err != nil {
		return untrusted(VerifyUnverifiable, "certificate unreadable")
	}
	if expired {
		return untrusted(VerifyInvalid, "certificate expired")
	}

	keyPEM, err := certs.ExtractPublicKey(lookup.CertificatePEM)
	if err != nil {
		return untrusted(VerifyUnverifiable, "certificate unreadable")
	}
	return trustEntry{status: lookup.Status, trusted: true, keyPEM: keyPEM}
}
