package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"

	bcryptMaxPasswordLen = 72

	// MaxArgon2Time bounds argon2id iterations selected through cost.
	MaxArgon2Time = 16
)

var (
	ErrEmptyPassword    = errors.New("password must not be empty")
	ErrPasswordTooLong  = errors.New("password exceeds hasher limit")
	ErrMismatchedHash   = errors.New("password does not match hash")
	ErrInvalidHash      = errors.New("unrecognized password hash")
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
	ErrInvalidCost      = errors.New("hash cost out of range")
)

// PasswordHasher defines hashing strategy for credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

// NewPasswordHasher returns the hasher for algorithm tuned by cost.
// A zero cost selects the algorithm default.
func NewPasswordHasher(algorithm string, cost int) (PasswordHasher, error) {
	switch algorithm {
	case "", AlgorithmArgon2id:
		if cost < 0 || cost > MaxArgon2Time {
			return nil, fmt.Errorf("%w: argon2id %d, want 1..%d", ErrInvalidCost, cost, MaxArgon2Time)
		}
		params := DefaultArgon2Params()
		if cost > 0 {
			params.Time = uint32(cost)
		}
		return NewArgon2Hasher(params), nil
	case AlgorithmBcrypt:
		if cost != 0 && (cost < bcrypt.MinCost || cost > bcrypt.MaxCost) {
			return nil, fmt.Errorf("%w: bcrypt %d, want %d..%d", ErrInvalidCost, cost, bcrypt.MinCost, bcrypt.MaxCost)
		}
		return NewBcryptHasher(cost), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// BcryptHasher uses bcrypt to hash passwords.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates BcryptHasher with provided cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns bcrypt hash for provided password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > bcryptMaxPasswordLen {
		return "", ErrPasswordTooLong
	}
	encoded, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Compare checks password against stored hash.
func (h *BcryptHasher) Compare(hash string, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatchedHash
	}
	return err
}
