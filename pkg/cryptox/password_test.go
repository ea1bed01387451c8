package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Cheap work factors keep the suite fast; the encoding carries the parameters
// so verification is unaffected.
func newTestHasher(t *testing.T, algorithm string) *Hasher {
	t.Helper()

	h, err := NewHasher(algorithm, "test-pepper")
	require.NoError(t, err)
	h.Argon2 = Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	h.BcryptCost = bcrypt.MinCost
	return h
}

func TestNewHasher_UnknownAlgorithm(t *testing.T) {
	_, err := NewHasher("md5", "")
	require.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestHasher_Argon2idFormat(t *testing.T) {
	h := newTestHasher(t, AlgorithmArgon2id)

	hash, err := h.Hash("password123")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"), "hash should be in PHC format")

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6, "PHC hash should have 6 parts")
	require.Equal(t, "m=1024,t=1,p=1", parts[3])
	require.NotEmpty(t, parts[4], "salt should not be empty")
	require.NotEmpty(t, parts[5], "hash should not be empty")
}

func TestHasher_RoundTrip(t *testing.T) {
	passwords := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 70)},
		{"password beyond bcrypt limit", strings.Repeat("b", 100)},
		{"multibyte password beyond bcrypt limit", strings.Repeat("密", 40)},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, algorithm := range []string{AlgorithmArgon2id, AlgorithmBcrypt} {
		h := newTestHasher(t, algorithm)
		for _, tt := range passwords {
			t.Run(algorithm+"/"+tt.name, func(t *testing.T) {
				hash, err := h.Hash(tt.password)
				require.NoError(t, err)
				require.NotContains(t, hash, tt.password)

				ok, err := h.Verify(tt.password, hash)
				require.NoError(t, err)
				require.True(t, ok)
			})
		}
	}
}

func TestHasher_UniqueSalts(t *testing.T) {
	for _, algorithm := range []string{AlgorithmArgon2id, AlgorithmBcrypt} {
		t.Run(algorithm, func(t *testing.T) {
			h := newTestHasher(t, algorithm)

			hash1, err := h.Hash("samepassword")
			require.NoError(t, err)
			hash2, err := h.Hash("samepassword")
			require.NoError(t, err)

			require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")

			for _, hash := range []string{hash1, hash2} {
				ok, err := h.Verify("samepassword", hash)
				require.NoError(t, err)
				require.True(t, ok)
			}
		})
	}
}

func TestHasher_WrongPassword(t *testing.T) {
	h := newTestHasher(t, AlgorithmArgon2id)
	hash, err := h.Hash("correct-password")
	require.NoError(t, err)

	for _, wrong := range []string{
		"wrong-password",
		"Correct-Password",
		"correct-password ",
		"",
		"correct-passwor",
		strings.Repeat("x", 10000),
	} {
		ok, err := h.Verify(wrong, hash)
		require.NoError(t, err)
		require.False(t, ok, "password %q should not verify", wrong)
	}
}

func TestHasher_PepperIsPartOfArgon2id(t *testing.T) {
	h := newTestHasher(t, AlgorithmArgon2id)
	hash, err := h.Hash("secret-password")
	require.NoError(t, err)

	other := newTestHasher(t, AlgorithmArgon2id)
	other.Pepper = "another-pepper"

	ok, err := other.Verify("secret-password", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasher_VerifiesLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	require.NoError(t, err)

	// Configured for argon2id, still accepts bcrypt records.
	h := newTestHasher(t, AlgorithmArgon2id)

	ok, err := h.Verify("1234", string(legacy))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Verify("4321", string(legacy))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasher_BcryptUsesFirst72Bytes(t *testing.T) {
	h := newTestHasher(t, AlgorithmBcrypt)

	long := strings.Repeat("a", 72)
	hash, err := h.Hash(long + "tail")
	require.NoError(t, err)

	ok, err := h.Verify(long+"different-tail", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Verify(long[:71], hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasher_InvalidHashFormat(t *testing.T) {
	h := newTestHasher(t, AlgorithmArgon2id)

	tests := []struct {
		name        string
		invalidHash string
	}{
		{"empty hash", ""},
		{"plaintext", "1234"},
		{"unknown algorithm", "$scrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"zero parallelism", "$argon2id$v=19$m=19456,t=2,p=0$c2FsdA$aGFzaA"},
		{"truncated bcrypt", "$2a$04$short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := h.Verify("test-password", tt.invalidHash)
			require.ErrorIs(t, err, ErrInvalidHash)
			require.False(t, ok)
		})
	}
}

func TestLoadPepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pepper")

	first, err := LoadPepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := LoadPepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second, "pepper should be stable across loads")
}

func TestLoadPepper_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pepper")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := LoadPepper(path)
	require.Error(t, err)
}
