package crypto

const (
	// ScryptN is the scrypt CPU/memory cost factor.
	ScryptN = 1 << 14
	// ScryptR is the scrypt block size parameter.
	ScryptR = 8
	// ScryptP is the scrypt parallelism parameter.
	ScryptP = 1

	// SaltSize is the size of an account credential salt in bytes.
	SaltSize = 16
	// CredentialSize is the size of the server-facing credential in bytes.
	CredentialSize = 32
	// WrapKeySize is the size of the private-key wrap key in bytes.
	WrapKeySize = 32

	// kdfOutputSize covers both the credential slice and the wrap-key
	// slice of a single scrypt invocation.
	kdfOutputSize = CredentialSize + WrapKeySize

	// RSAKeyBits is the modulus size of an identity keypair.
	RSAKeyBits = 2048
	// RSAWrappedKeySize is the size of an OAEP-wrapped content key in bytes.
	RSAWrappedKeySize = RSAKeyBits / 8
	// RSASignatureSize is the size of a PSS signature in bytes.
	RSASignatureSize = RSAKeyBits / 8

	// AESKeySize is the size of an AES-256 key in bytes.
	AESKeySize = 32
	// AESNonceSize is the size of an AES-GCM nonce in bytes.
	AESNonceSize = 12
	// AESTagSize is the size of an AES-GCM authentication tag in bytes.
	AESTagSize = 16

	// WrapKeyContext is the HKDF info label separating the private-key
	// wrap key from the login credential.
	WrapKeyContext = "chatcrypt/private-key-wrap/v1"

	// CipherLabel names the content cipher on the wire.
	CipherLabel = "aes-256-gcm"
)
