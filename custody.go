package chatcrypt

// CustodyState tracks whether the decrypted private key is resident in
// memory this session.
type CustodyState int

const (
	// StateNoIdentity means no keypair exists yet (or it was wiped).
	StateNoIdentity CustodyState = iota
	// StateLocked means the encrypted private key is known but its
	// plaintext is not in memory; unlocking requires the password.
	StateLocked
	// StateUnlocked means the plaintext private key is resident and
	// signing/encryption operations are permitted.
	StateUnlocked
)

// String returns the state name.
func (s CustodyState) String() string {
	switch s {
	case StateNoIdentity:
		return "no-identity"
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}
