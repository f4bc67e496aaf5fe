package models_test

import (
	"testing"
	"time"

	"authsvc/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestUser_SetPassword(t *testing.T) {
	user := &models.User{}

	err := user.SetPassword("secret1")
	assert.NoError(t, err)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	// Matching raw password verifies, anything else does not.
	assert.True(t, user.CheckPassword("secret1"))
	assert.False(t, user.CheckPassword("secret2"))
	assert.False(t, user.CheckPassword(""))
}

func TestUser_SetPassword_Salted(t *testing.T) {
	u1 := &models.User{}
	u2 := &models.User{}

	assert.NoError(t, u1.SetPassword("secret1"))
	assert.NoError(t, u2.SetPassword("secret1"))

	// Same password, different digests, both verify.
	assert.NotEqual(t, u1.PasswordHash, u2.PasswordHash)
	assert.True(t, u1.CheckPassword("secret1"))
	assert.True(t, u2.CheckPassword("secret1"))
}

func TestUser_GeneratePasswordResetToken(t *testing.T) {
	user := &models.User{}

	before := time.Now()
	rawToken, err := user.GeneratePasswordResetToken(15 * time.Minute)
	assert.NoError(t, err)

	// 32 random bytes, hex-encoded.
	assert.Len(t, rawToken, 64)

	// Only the digest is stored, never the raw token.
	assert.NotNil(t, user.ResetTokenDigest)
	assert.NotEqual(t, rawToken, *user.ResetTokenDigest)
	assert.Equal(t, models.HashResetToken(rawToken), *user.ResetTokenDigest)

	assert.NotNil(t, user.ResetTokenExpiry)
	assert.WithinDuration(t, before.Add(15*time.Minute), *user.ResetTokenExpiry, 2*time.Second)

	// A second issuance replaces the first.
	secondToken, err := user.GeneratePasswordResetToken(15 * time.Minute)
	assert.NoError(t, err)
	assert.NotEqual(t, rawToken, secondToken)
	assert.Equal(t, models.HashResetToken(secondToken), *user.ResetTokenDigest)
}

func TestUser_ClearPasswordResetToken(t *testing.T) {
	user := &models.User{}
	_, err := user.GeneratePasswordResetToken(15 * time.Minute)
	assert.NoError(t, err)

	user.ClearPasswordResetToken()

	// Digest and expiry are cleared together.
	assert.Nil(t, user.ResetTokenDigest)
	assert.Nil(t, user.ResetTokenExpiry)
}

func TestHashResetToken_Deterministic(t *testing.T) {
	assert.Equal(t, models.HashResetToken("abc"), models.HashResetToken("abc"))
	assert.NotEqual(t, models.HashResetToken("abc"), models.HashResetToken("abd"))
	assert.Len(t, models.HashResetToken("abc"), 64)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ann@x.com", models.NormalizeEmail("Ann@X.com"))
	assert.Equal(t, "ann@x.com", models.NormalizeEmail("  ann@x.com  "))
	assert.Equal(t, "ann@x.com", models.NormalizeEmail("ann@x.com"))
}

func TestUser_Public(t *testing.T) {
	digest := "digest"
	user := &models.User{
		ID:               "user-123",
		Name:             "Ann",
		Email:            "ann@x.com",
		PasswordHash:     "hash",
		ResetTokenDigest: &digest,
	}

	public := user.Public()
	assert.Equal(t, "user-123", public.ID)
	assert.Equal(t, "Ann", public.Name)
	assert.Equal(t, "ann@x.com", public.Email)
}
