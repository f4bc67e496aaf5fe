package repositories

import (
	"errors"
	"time"

	"authsvc/internal/models"
)

// ErrUserNotFound is returned by lookups that match no user.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned by Create when the email is already
// registered. The storage layer's unique index is the authority; the
// service's existence check only narrows the race window.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	// GetByResetTokenDigest matches a stored reset-token digest whose expiry
	// is strictly after now. An expired match and no match are both
	// ErrUserNotFound; callers must not distinguish them.
	GetByResetTokenDigest(digest string, now time.Time) (*models.User, error)
	Save(user *models.User) error
}
