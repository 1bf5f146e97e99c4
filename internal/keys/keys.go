package keys

import (
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const KeySize = 2048

// DeriveRSAKeyPair deterministically generates the token-signing keys from a
// seed, so every restart (and every replica sharing the secret) produces the
// same pair and previously issued tokens stay verifiable.
func DeriveRSAKeyPair(signingSecret, externalURL string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	if signingSecret == "" {
		return nil, nil, fmt.Errorf("signing secret is required for key derivation")
	}
	if externalURL == "" {
		return nil, nil, fmt.Errorf("external URL is required for key derivation")
	}

	// Combine secret and URL so distinct deployments derive distinct keys.
	seed := sha256.Sum256([]byte(signingSecret + externalURL))

	reader := hkdf.New(sha256.New, seed[:], []byte("just-recordings-rsa-salt"), []byte("rsa-keypair"))

	privateKey, err := rsa.GenerateKey(&deterministicReader{reader}, KeySize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}

	return privateKey, &privateKey.PublicKey, nil
}

// deterministicReader wraps an io.Reader to satisfy rand.Reader interface.
// rsa.GenerateKey sometimes consumes a single byte before prime generation;
// answering 1-byte reads with a constant keeps the stream position stable so
// the derived key does not depend on it.
type deterministicReader struct {
	reader io.Reader
}

func (d *deterministicReader) Read(p []byte) (n int, err error) {
	if len(p) == 1 {
		p[0] = 0
		return 1, nil
	}
	return io.ReadFull(d.reader, p)
}
