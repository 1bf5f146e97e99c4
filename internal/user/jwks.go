package user

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

// JWKSEndpoint publishes the token verification key at the
// well-known JWKS path so clients can verify tokens offline.
type JWKSEndpoint struct {
	document []byte
}

func NewJWKSEndpoint(publicKey *rsa.PublicKey) (*JWKSEndpoint, error) {
	key, err := jwk.Import(publicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to import public key: %w", err)
	}

	if err := key.Set(jwk.KeyIDKey, keyID(publicKey)); err != nil {
		return nil, err
	}
	if err := key.Set(jwk.AlgorithmKey, "RS256"); err != nil {
		return nil, err
	}
	if err := key.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, err
	}

	set := jwk.NewSet()
	if err := set.AddKey(key); err != nil {
		return nil, err
	}

	document, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key set: %w", err)
	}

	return &JWKSEndpoint{document: document}, nil
}

func (e *JWKSEndpoint) GetJWKS(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("application/json")
	if _, err := ctx.Write(e.document); err != nil {
		log.Error().Err(err).Msg("Failed to write JWKS response")
	}
}

// keyID derives a stable identifier from the DER encoding of the key.
func keyID(publicKey *rsa.PublicKey) string {
	der := x509.MarshalPKCS1PublicKey(publicKey)
	sum := sha256.Sum256(der)
	return base64.RawURLEncoding.EncodeToString(sum[:8])
}
