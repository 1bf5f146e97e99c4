package share

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateShareToken_ShouldProduceURLSafeFixedLengthTokens(t *testing.T) {
	token, err := GenerateShareToken()

	assert.NoError(t, err)
	assert.Len(t, token, base64.RawURLEncoding.EncodedLen(tokenEntropyBytes))

	decoded, err := base64.RawURLEncoding.DecodeString(token)
	assert.NoError(t, err)
	assert.Len(t, decoded, tokenEntropyBytes)
}

func TestGenerateShareToken_ShouldShowNoCorrelationAcrossMany(t *testing.T) {
	// given / when
	const n = 1000
	tokens := make(map[string]bool, n)
	prefixes := make(map[string]int)

	for i := 0; i < n; i++ {
		token, err := GenerateShareToken()
		assert.NoError(t, err)
		tokens[token] = true
		prefixes[token[:2]]++
	}

	// then: all distinct
	assert.Len(t, tokens, n)

	// and no two-character prefix dominates. 64^2 buckets over 1000 draws
	// makes any count above ~10 wildly improbable for a uniform source.
	for prefix, count := range prefixes {
		assert.Less(t, count, 10, "prefix %q appeared %d times", prefix, count)
	}
}
