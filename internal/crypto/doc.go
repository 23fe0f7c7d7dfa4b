// Package crypto provides the cryptographic primitives for the chatcrypt
// protocol: password-based key derivation, RSA identity keypairs,
// private-key-at-rest protection, hybrid message encryption, and digital
// signatures.
//
// # Algorithm Suite
//
// The package uses the following cryptographic algorithms:
//
//   - scrypt (RFC 7914): Memory-hard password-based key derivation with
//     fixed parameters (N=2^14, r=8, p=1) so that every client produces
//     byte-identical output for the same (password, salt).
//
//   - HKDF-SHA-256 (RFC 5869): Domain separation of the local private-key
//     wrap key from the server-facing login credential.
//
//   - RSA-2048 with OAEP-SHA-256: Asymmetric wrapping of per-message
//     content keys, once per party.
//
//   - RSA-2048 with PSS-SHA-256: Randomized signatures over the wire bytes
//     (nonce || ciphertext), verifiable without decryption.
//
//   - AES-256-GCM: Authenticated encryption of message content and of the
//     private key at rest.
//
// # Security Model
//
//   - Confidentiality: only a holder of a wrapped-key slot's private key
//     can recover the content key.
//   - Authenticity: PSS signatures bind exactly the bytes that travel on
//     the wire; verification never requires a private key.
//   - Integrity: tampering with nonce, ciphertext, or either wrapped key
//     causes decryption to fail.
//   - Independence: signature verification and decryption fail
//     independently; a forged signature never blocks decryption and a
//     tampered ciphertext never masquerades as a signature problem.
//
// # Critical Security Notes
//
// The credential sent to the server and the local wrap key come from
// disjoint slices of one scrypt output. Possession of the credential must
// never yield the wrap key; do not derive one from the other.
//
// AES-GCM nonces MUST be unique per encryption under the same key. Nonce
// reuse breaks GCM completely, allowing attackers to recover the
// authentication key and forge messages.
//
// # Boundary Encodings
//
// Keys, certificates and signing requests travel as PEM; nonces and
// ciphertext as lowercase hex; wrapped keys, signatures and the private
// key blob as standard base64. The server and every other client decode
// these identically, so the encodings are part of the wire contract.
package crypto
