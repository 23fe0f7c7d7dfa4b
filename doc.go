// Package chatcrypt provides the client-side end-to-end encryption engine
// for a chat application: password-based key derivation, RSA identity
// keypairs protected at rest, hybrid message encryption, digital
// signatures, certificate-backed trust, and the key custody state machine
// gating it all.
//
// The server transports opaque bytes and never holds unencrypted key
// material. Everything the engine produces for the wire is encoded as PEM
// (keys, certificates, signing requests), hex (nonces, ciphertext) or
// base64 (wrapped keys, signatures).
//
// Basic usage:
//
//	engine := chatcrypt.New()
//
//	salt, err := engine.NewSalt()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Signup: derive the credential, create the identity.
//	created, err := engine.CreateIdentity(ctx, password, salt)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// created.Credential and created.EncryptedPrivateKey go to the
//	// server; the plaintext private key never leaves the engine.
//
//	// Send a message.
//	envelope, err := engine.EncryptForSend("hello", bobPublicKeyPEM)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Receive a message.
//	result, err := engine.DecryptReceived(envelope, alicePublicKeyPEM, chatcrypt.RoleRecipient)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Plaintext, result.Verified)
//
// On logout call Wipe; the private key is discarded and every operation
// requiring it returns a StateError until the identity is restored and
// unlocked again.
package chatcrypt
