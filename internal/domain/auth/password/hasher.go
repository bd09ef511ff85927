package password

import "errors"

// Hasher turns plaintext passwords into salted one-way digests.
type Hasher interface {
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches digest. A mismatch is
	// (false, nil); an error means the digest could not be checked at all.
	Verify(plaintext, digest string) (bool, error)
}

// ErrTooLong is returned by Hash when the primitive cannot accept the input.
var ErrTooLong = errors.New("password too long")
