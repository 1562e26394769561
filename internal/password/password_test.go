package password

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	encoded, err := Hash("secret99")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	ok, err := Verify(encoded, "secret99")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify(encoded, "secret98")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashRoundTripRandomPasswords(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!?:#"

	for i := 0; i < 8; i++ {
		b := make([]byte, 7+rng.Intn(24))
		for j := range b {
			b[j] = alphabet[rng.Intn(len(alphabet))]
		}
		pass := string(b)

		encoded, err := Hash(pass)
		require.NoError(t, err)

		ok, err := Verify(encoded, pass)
		require.NoError(t, err)
		assert.True(t, ok, "password %q should verify against its own hash", pass)

		ok, err = Verify(encoded, pass+"x")
		require.NoError(t, err)
		assert.False(t, ok, "altered password %q must not verify", pass)
	}
}

func TestHashProducesFreshSalt(t *testing.T) {
	first, err := Hash("secret99")
	require.NoError(t, err)
	second, err := Hash("secret99")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	for _, encoded := range []string{first, second} {
		ok, err := Verify(encoded, "secret99")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	testCases := []struct {
		name    string
		encoded string
	}{
		{name: "empty", encoded: ""},
		{name: "not a hash", encoded: "plaintext"},
		{name: "bcrypt hash", encoded: "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"},
		{name: "wrong variant", encoded: "$argon2i$v=19$m=4096,t=3,p=1$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{name: "garbage params", encoded: "$argon2id$v=19$m=x,t=y,p=z$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{name: "bad salt encoding", encoded: "$argon2id$v=19$m=4096,t=3,p=1$!!!$aGFzaGhhc2g"},
		{name: "truncated", encoded: "$argon2id$v=19$m=4096,t=3,p=1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Verify(tc.encoded, "secret99")
			assert.ErrorIs(t, err, ErrMalformedHash)
		})
	}
}
