package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents a registered account. The password and reset-token columns
// hold one-way digests only; the raw values are never persisted.
type User struct {
	ID               string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name             string     `json:"name" gorm:"type:varchar(100);not null"`
	Email            string     `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	PasswordHash     string     `json:"-" gorm:"type:varchar(255);not null"`
	IsVerified       bool       `json:"-" gorm:"default:false"` // reserved for email verification
	ResetTokenDigest *string    `json:"-" gorm:"type:varchar(64)"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"-"`
	UpdatedAt        time.Time  `json:"-"`
}

// PublicUser is the subset of a user record safe to return to clients.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public returns the client-facing projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// NormalizeEmail trims and lowercases an email address so that lookups and
// the unique index agree on a single canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword hashes the raw password with bcrypt and stores the digest.
// This is the only path that mutates PasswordHash, so a save of an untouched
// user never rehashes an already-hashed value.
func (u *User) SetPassword(raw string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hashed)
	return nil
}

// CheckPassword reports whether the raw password matches the stored digest.
func (u *User) CheckPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(raw)) == nil
}

// HashResetToken computes the deterministic digest stored for a reset token.
// The token itself carries 256 bits of entropy, so a fast hash is enough.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// GeneratePasswordResetToken creates a random reset token, stores its digest
// and expiry on the user, and returns the raw token for one-time delivery to
// the user. The raw token is never persisted.
func (u *User) GeneratePasswordResetToken(ttl time.Duration) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	rawToken := hex.EncodeToString(buf)

	digest := HashResetToken(rawToken)
	expiry := time.Now().Add(ttl)
	u.ResetTokenDigest = &digest
	u.ResetTokenExpiry = &expiry

	return rawToken, nil
}

// ClearPasswordResetToken removes the stored digest and expiry. Called after
// a successful reset so the token is single-use.
func (u *User) ClearPasswordResetToken() {
	u.ResetTokenDigest = nil
	u.ResetTokenExpiry = nil
}
