// Package password hashes and verifies account passwords with Argon2id. The
// encoded form embeds the algorithm parameters and salt, so stored hashes
// survive future parameter changes.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength = 32
	keyLength  = 32
	timeCost   = 3
	memoryCost = 4096 // KiB
	threads    = 1
)

// ErrMalformedHash means a stored hash could not be decoded. It is a server
// fault, never a bad-credentials signal.
var ErrMalformedHash = errors.New("malformed password hash")

// Hash derives an Argon2id hash of password with a fresh random salt and
// returns it PHC-encoded.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, timeCost, memoryCost, threads, keyLength)
	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, memoryCost, timeCost, threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Verify reports whether candidate matches the encoded hash. The parameters
// and salt come from the encoding itself, and the comparison is constant
// time.
func Verify(encoded, candidate string) (bool, error) {
	salt, key, memory, time, parallelism, err := decode(encoded)
	if err != nil {
		return false, err
	}
	derived := argon2.IDKey([]byte(candidate), salt, time, memory, parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, derived) == 1, nil
}

func decode(encoded string) (salt, key []byte, memory, time uint32, parallelism uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		err = ErrMalformedHash
		return
	}
	if parts[1] != "argon2id" {
		err = fmt.Errorf("%w: unsupported variant %q", ErrMalformedHash, parts[1])
		return
	}
	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		err = fmt.Errorf("%w: %s", ErrMalformedHash, parts[2])
		return
	}
	if version != argon2.Version {
		err = fmt.Errorf("%w: unsupported version %d", ErrMalformedHash, version)
		return
	}
	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &parallelism); err != nil {
		err = fmt.Errorf("%w: %s", ErrMalformedHash, parts[3])
		return
	}
	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		err = fmt.Errorf("%w: bad salt encoding", ErrMalformedHash)
		return
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		err = fmt.Errorf("%w: bad key encoding", ErrMalformedHash)
		return
	}
	if len(key) == 0 {
		err = fmt.Errorf("%w: empty key", ErrMalformedHash)
	}
	return
}
