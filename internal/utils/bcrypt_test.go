package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	password := "password123"
	hashedPassword, err := HashPassword(password)

	assert.NoError(t, err)
	assert.NotEmpty(t, hashedPassword)
	assert.NotEqual(t, password, hashedPassword)
	assert.True(t, IsHashed(hashedPassword))
}

func TestVerifyPassword(t *testing.T) {
	password := "password123"
	hashedPassword, err := HashPassword(password)
	require.NoError(t, err)

	ok, err := VerifyPassword(password, hashedPassword)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrongpassword", hashedPassword)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	ok, err := VerifyPassword("password123", "invalidhash")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestIsHashed(t *testing.T) {
	assert.False(t, IsHashed("password123"))
	assert.False(t, IsHashed("$2b$not-a-hash"))
	assert.False(t, IsHashed(""))

	hashed, err := HashPassword("password123")
	require.NoError(t, err)
	assert.True(t, IsHashed(hashed))
}

func TestEnsureHashed(t *testing.T) {
	hashed, err := EnsureHashed("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hashed)

	// second pass must leave the hash untouched
	again, err := EnsureHashed(hashed)
	require.NoError(t, err)
	assert.Equal(t, hashed, again)

	ok, err := VerifyPassword("password123", again)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("é", MaxPasswordBytes/2+1))

	require.Error(t, err)
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
	assert.Equal(t, 1, strings.Count(err.Error(), "failed to hash password"))
}
