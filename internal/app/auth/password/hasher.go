package password

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	domain "github.com/Miraines/storefront-auth/internal/domain/auth/password"
	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"

	DefaultBcryptCost = 10
)

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

type Config struct {
	Algorithm string
	// BcryptCost <= 0 means DefaultBcryptCost.
	BcryptCost int
	Pepper     string
}

// New returns the hasher selected by cfg. bcrypt is the default.
func New(cfg Config) (domain.Hasher, error) {
	switch cfg.Algorithm {
	case "", AlgorithmBcrypt:
		return NewBcrypt(cfg.BcryptCost, cfg.Pepper)
	case AlgorithmArgon2id:
		return NewArgon2id(cfg.Pepper), nil
	default:
		return nil, fmt.Errorf("unsupported password algorithm %q", cfg.Algorithm)
	}
}

type BcryptHasher struct {
	cost   int
	pepper string
}

func NewBcrypt(cost int, pepper string) (*BcryptHasher, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	return &BcryptHasher{cost: cost, pepper: pepper}, nil
}

// input keys the password with the pepper. bcrypt reads at most 72 bytes,
// so a peppered password is reduced to a fixed 44-byte HMAC first.
func (h *BcryptHasher) input(plaintext string) []byte {
	if h.pepper == "" {
		return []byte(plaintext)
	}
	mac := hmac.New(sha256.New, []byte(h.pepper))
	mac.Write([]byte(plaintext))
	return []byte(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(h.input(plaintext), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrTooLong
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), h.input(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword),
		errors.Is(err, bcrypt.ErrPasswordTooLong):
		// an over-long password can never have been stored
		return false, nil
	default:
		return false, err
	}
}

type Argon2idHasher struct {
	pepper string
}

func NewArgon2id(pepper string) *Argon2idHasher {
	return &Argon2idHasher{pepper: pepper}
}

func (h *Argon2idHasher) Hash(plaintext string) (string, error) {
	return argon2id.CreateHash(plaintext+h.pepper, argonParams)
}

func (h *Argon2idHasher) Verify(plaintext, digest string) (bool, error) {
	return argon2id.ComparePasswordAndHash(plaintext+h.pepper, digest)
}
