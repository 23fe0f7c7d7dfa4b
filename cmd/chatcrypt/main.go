// Command chatcrypt exercises the encryption engine from scripts and
// test harnesses. Every command reads arguments or JSON on stdin and
// writes JSON on stdout; logs go to stderr.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	chatcrypt "github.com/chatseal/chatcrypt-go"
)

func main() {
	if err := run(os.Args); err != nil {
		fatal("%v", err)
	}
}

func run(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: chatcrypt <command> [args]")
	}

	// A .env next to the binary is a developer convenience; its absence
	// is not an error.
	_ = godotenv.Load()

	cfg, err := LoadConfig(os.Getenv("CHATCRYPT_CONFIG"))
	if err != nil {
		return err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	caPEM, err := cfg.CACertificatePEM()
	if err != nil {
		return err
	}

	engine := chatcrypt.New(
		chatcrypt.WithLogger(logger),
		chatcrypt.WithCACertificate(caPEM),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	switch args[1] {
	case "new-salt":
		return newSalt(engine)
	case "derive-credential":
		if len(args) < 4 {
			return fmt.Errorf("usage: chatcrypt derive-credential <password> <salt>")
		}
		return deriveCredential(ctx, engine, args[2], args[3])
	case "create-identity":
		if len(args) < 4 {
			return fmt.Errorf("usage: chatcrypt create-identity <password> <salt>")
		}
		return createIdentity(ctx, engine, args[2], args[3])
	case "encrypt":
		return encrypt(ctx, engine)
	case "decrypt":
		return decrypt(ctx, engine)
	case "sign":
		return sign(ctx, engine)
	case "verify":
		return verify()
	case "csr":
		return buildCSR(ctx, engine)
	default:
		return fmt.Errorf("unknown command: %s", args[1])
	}
}

func newSalt(engine *chatcrypt.Engine) error {
	salt, err := engine.NewSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	return emit(map[string]string{"salt": salt})
}

func deriveCredential(ctx context.Context, engine *chatcrypt.Engine, password, salt string) error {
	credential, err := engine.DeriveCredential(ctx, password, salt)
	if err != nil {
		return fmt.Errorf("derive credential: %w", err)
	}
	return emit(map[string]string{"credential": credential})
}

func createIdentity(ctx context.Context, engine *chatcrypt.Engine, password, salt string) error {
	created, err := engine.CreateIdentity(ctx, password, salt)
	if err != nil {
		return fmt.Errorf("create identity: %w", err)
	}
	exported, err := engine.ExportIdentity()
	if err != nil {
		return fmt.Errorf("export identity: %w", err)
	}
	return emit(struct {
		Credential string                      `json:"credential"`
		Identity   *chatcrypt.ExportedIdentity `json:"identity"`
	}{created.Credential, exported})
}

// identityInput is the stdin shape shared by the commands that need an
// unlocked identity.
type identityInput struct {
	Identity *chatcrypt.ExportedIdentity `json:"identity"`
	Password string                      `json:"password"`
}

func unlockFromInput(ctx context.Context, engine *chatcrypt.Engine, in identityInput) error {
	if in.Identity == nil {
		return fmt.Errorf("missing identity")
	}
	if err := engine.ImportIdentity(in.Identity); err != nil {
		return fmt.Errorf("import identity: %w", err)
	}
	if err := engine.Unlock(ctx, in.Password); err != nil {
		return fmt.Errorf("unlock: %w", err)
	}
	return nil
}

func encrypt(ctx context.Context, engine *chatcrypt.Engine) error {
	var in struct {
		identityInput
		RecipientPublicKey string `json:"recipient_public_key"`
		Plaintext          string `json:"plaintext"`
	}
	if err := readInput(&in); err != nil {
		return err
	}
	if err := unlockFromInput(ctx, engine, in.identityInput); err != nil {
		return err
	}

	env, err := engine.EncryptForSend(in.Plaintext, in.RecipientPublicKey)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}
	wire, err := env.Encode()
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	_, err = os.Stdout.Write(append(wire, '\n'))
	return err
}

func decrypt(ctx context.Context, engine *chatcrypt.Engine) error {
	var in struct {
		identityInput
		SenderPublicKey string          `json:"sender_public_key"`
		AsSender        bool            `json:"as_sender"`
		Envelope        json.RawMessage `json:"envelope"`
	}
	if err := readInput(&in); err != nil {
		return err
	}
	if err := unlockFromInput(ctx, engine, in.identityInput); err != nil {
		return err
	}

	env, err := chatcrypt.DecodeEnvelope(in.Envelope)
	if err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	role := chatcrypt.RoleRecipient
	if in.AsSender {
		role = chatcrypt.RoleSender
	}
	result, err := engine.DecryptReceived(env, in.SenderPublicKey, role)
	if err != nil {
		return fmt.Errorf("decrypt: %w", err)
	}
	return emit(struct {
		Plaintext string `json:"plaintext"`
		Verified  bool   `json:"verified"`
	}{result.Plaintext, result.Verified})
}

func sign(ctx context.Context, engine *chatcrypt.Engine) error {
	var in struct {
		identityInput
		Content string `json:"content"`
	}
	if err := readInput(&in); err != nil {
		return err
	}
	if err := unlockFromInput(ctx, engine, in.identityInput); err != nil {
		return err
	}

	sig, err := engine.SignPlaintext(in.Content)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}
	return emit(map[string]string{"signature": sig})
}

func verify() error {
	var in struct {
		Content   string `json:"content"`
		Signature string `json:"signature"`
		PublicKey string `json:"public_key"`
	}
	if err := readInput(&in); err != nil {
		return err
	}
	valid := chatcrypt.VerifySignature(in.Content, in.Signature, in.PublicKey)
	return emit(map[string]bool{"valid": valid})
}

func buildCSR(ctx context.Context, engine *chatcrypt.Engine) error {
	var in struct {
		identityInput
		CommonName string `json:"common_name"`
	}
	if err := readInput(&in); err != nil {
		return err
	}
	if err := unlockFromInput(ctx, engine, in.identityInput); err != nil {
		return err
	}

	csr, err := engine.BuildCertificateRequest(in.CommonName)
	if err != nil {
		return fmt.Errorf("build certificate request: %w", err)
	}
	return emit(map[string]string{"csr": csr})
}

func readInput(v any) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	return nil
}

func emit(v any) error {
	return json.NewEncoder(os.Stdout).Encode(v)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
