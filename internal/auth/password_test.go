package auth

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("rahasia-kuat-123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$"))

	assert.True(t, VerifyPassword(hash, "rahasia-kuat-123"))
	assert.False(t, VerifyPassword(hash, "rahasia-kuat-124"))
}

func TestHashIsSalted(t *testing.T) {
	first, err := HashPassword("admin123")
	require.NoError(t, err)
	second, err := HashPassword("admin123")
	require.NoError(t, err)

	// Fresh salt per call: same plaintext, different credentials.
	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword(first, "admin123"))
	assert.True(t, VerifyPassword(second, "admin123"))
}

func TestVerifySingleCharacterMutationFails(t *testing.T) {
	const password = "klinik-fisio-2026"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	for i := 0; i < len(password); i++ {
		mutated := []byte(password)
		mutated[i] ^= 0x01
		assert.False(t, VerifyPassword(hash, string(mutated)), "mutation at index %d must fail", i)
	}
}

func TestVerifyMalformedCredential(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=19456,t=2,p=1$onlyonepart",
		"$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=abc,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!",
	}
	for _, malformed := range cases {
		// Indistinguishable from a wrong password: false, no panic.
		assert.False(t, VerifyPassword(malformed, "whatever"), "credential %q", malformed)
	}
}

func TestVerifyAfterParameterChange(t *testing.T) {
	// A credential recorded under older costs still verifies because the
	// stored parameters drive re-derivation.
	salt := []byte("0123456789abcdef")
	derived := argon2.IDKey([]byte("pindah-parameter"), salt, 3, 65536, 2, 32)
	legacy := fmt.Sprintf("$argon2id$v=%d$m=65536,t=3,p=2$%s$%s",
		argon2.Version,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(derived),
	)

	assert.True(t, VerifyPassword(legacy, "pindah-parameter"))
	assert.False(t, VerifyPassword(legacy, "pindah-parameterX"))
}
