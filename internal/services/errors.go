package services

import "errors"

// Error taxonomy for the auth flows. Handlers map these to HTTP statuses;
// anything else is an internal error.
var (
	// ErrEmailTaken means the signup email is already registered.
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. The merged message is deliberate; the two causes are only
	// distinguished in server logs.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound means no account exists for the given email.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidResetToken covers a bad and an expired reset token alike.
	ErrInvalidResetToken = errors.New("token is invalid or has expired")

	// ErrMailDelivery means the reset email could not be handed to the
	// mail transport.
	ErrMailDelivery = errors.New("email could not be sent")
)
