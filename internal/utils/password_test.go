package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("ModessaÉté2026!")
	require.NoError(t, err)
	assert.True(t, IsArgon2Hash(hash))

	ok, err := VerifyPassword("ModessaÉté2026!", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("mauvais", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_BcryptCompat(t *testing.T) {
	// Comptes créés avant la migration Argon2.
	hash, err := bcrypt.GenerateFromPassword([]byte("ancien-mdp"), bcrypt.MinCost)
	require.NoError(t, err)
	require.True(t, IsBcryptHash(string(hash)))

	ok, err := VerifyPassword("ancien-mdp", string(hash))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("autre", string(hash))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_InvalidFormat(t *testing.T) {
	_, err := VerifyPassword("x", "pas-un-hash")
	assert.Error(t, err)
}
