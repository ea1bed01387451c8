package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Supported password hashing algorithms.
const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

// DefaultBcryptCost matches the cost used by records imported from the
// previous deployment.
const DefaultBcryptCost = 12

// bcryptMaxInput is the number of password bytes bcrypt actually uses.
const bcryptMaxInput = 72

var (
	ErrInvalidHash      = errors.New("cryptox: invalid password hash")
	ErrUnknownAlgorithm = errors.New("cryptox: unknown password hashing algorithm")
)

// Argon2Params is the tunable work factor for Argon2id.
type Argon2Params struct {
	Memory      uint32 // Memory usage in KiB
	Iterations  uint32 // Iteration count
	Parallelism uint8  // Number of threads
	SaltLength  uint32 // Length of the random salt in bytes
	KeyLength   uint32 // Length of the derived key in bytes
}

// DefaultArgon2Params follows the OWASP minimum for Argon2id (19 MiB, t=2, p=1).
var DefaultArgon2Params = Argon2Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// PasswordHasher is a one-way salted password transform. Hash never returns
// the same encoding twice for the same input, and Verify reports whether a
// plaintext reproduces an encoding previously produced by Hash.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Verify returns (true, nil) on match, (false, nil) on mismatch and an
	// error only when the encoded hash cannot be parsed.
	Verify(password, encoded string) (bool, error)
}

// Hasher hashes new passwords with the configured algorithm and verifies any
// encoding it understands, so records hashed with bcrypt keep working after
// switching to Argon2id (and the other way around).
//
// The pepper is only mixed into Argon2id hashes. bcrypt truncates its input at
// 72 bytes and imported bcrypt records were never peppered.
type Hasher struct {
	Algorithm  string
	Argon2     Argon2Params
	BcryptCost int
	Pepper     string
}

// NewHasher returns a Hasher for algorithm with default work factors.
func NewHasher(algorithm, pepper string) (*Hasher, error) {
	switch algorithm {
	case AlgorithmArgon2id, AlgorithmBcrypt:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
	return &Hasher{
		Algorithm:  algorithm,
		Argon2:     DefaultArgon2Params,
		BcryptCost: DefaultBcryptCost,
		Pepper:     pepper,
	}, nil
}

// Hash encodes password with the configured algorithm.
func (h *Hasher) Hash(password string) (string, error) {
	switch h.Algorithm {
	case AlgorithmArgon2id:
		return h.hashArgon2id(password)
	case AlgorithmBcrypt:
		cost := h.BcryptCost
		if cost == 0 {
			cost = DefaultBcryptCost
		}
		hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), cost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(hash), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, h.Algorithm)
	}
}

// Verify checks password against an Argon2id (PHC) or bcrypt encoding.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		return h.verifyArgon2id(password, encoded)
	case isBcrypt(encoded):
		err := bcrypt.CompareHashAndPassword([]byte(encoded), bcryptInput(password))
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
		}
	default:
		return false, fmt.Errorf("%w: unrecognised encoding", ErrInvalidHash)
	}
}

// bcryptInput truncates password to the 72 bytes bcrypt reads. Longer
// passwords hash and verify on their prefix, as records from the previous
// deployment were produced.
func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptMaxInput {
		b = b[:bcryptMaxInput]
	}
	return b
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

func (h *Hasher) params() Argon2Params {
	p := h.Argon2
	if p.Memory == 0 {
		p.Memory = DefaultArgon2Params.Memory
	}
	if p.Iterations == 0 {
		p.Iterations = DefaultArgon2Params.Iterations
	}
	if p.Parallelism == 0 {
		p.Parallelism = DefaultArgon2Params.Parallelism
	}
	if p.SaltLength == 0 {
		p.SaltLength = DefaultArgon2Params.SaltLength
	}
	if p.KeyLength == 0 {
		p.KeyLength = DefaultArgon2Params.KeyLength
	}
	return p
}

// hashArgon2id generates a PHC-format Argon2id hash string including salt and parameters.
func (h *Hasher) hashArgon2id(password string) (string, error) {
	p := h.params()

	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey(
		[]byte(password+h.Pepper),
		salt,
		p.Iterations,
		p.Memory,
		p.Parallelism,
		p.KeyLength,
	)

	// $argon2id$v=19$m=X,t=Y,p=Z$salt$hash
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Iterations,
		p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func (h *Hasher) verifyArgon2id(password, encoded string) (bool, error) {
	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("%w: expected 6 parts", ErrInvalidHash)
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return false, fmt.Errorf("%w: wrong version", ErrInvalidHash)
	}

	var mem, iters, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return false, fmt.Errorf("%w: failed to parse parameters: %v", ErrInvalidHash, err)
	}
	if par == 0 || par > 255 {
		return false, fmt.Errorf("%w: parallelism %d out of range", ErrInvalidHash, par)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("%w: failed to decode salt: %v", ErrInvalidHash, err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("%w: failed to decode hash: %v", ErrInvalidHash, err)
	}
	if len(expected) == 0 || len(expected) > 1024 {
		return false, fmt.Errorf("%w: key length %d out of range", ErrInvalidHash, len(expected))
	}

	computed := argon2.IDKey(
		[]byte(password+h.Pepper),
		salt,
		iters,
		mem,
		uint8(par),
		uint32(len(expected)), // #nosec G115 - bounded above
	)

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}
