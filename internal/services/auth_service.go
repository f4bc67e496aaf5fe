package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"authsvc/internal/config"
	"authsvc/internal/models"
	"authsvc/internal/repositories"
	"authsvc/pkg/mailqueue"
)

// Mailer hands an outbound email to the transport. Implemented by
// mailqueue.Client in production and by recording stubs in tests.
type Mailer interface {
	Send(email mailqueue.Email) error
}

// AuthService orchestrates the signup, login, forgot-password and
// reset-password flows.
type AuthService struct {
	userRepo      repositories.UserRepository
	tokens        *TokenService
	mailer        Mailer
	resetTokenTTL time.Duration
	resetURL      string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokens *TokenService, mailer Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		tokens:        tokens,
		mailer:        mailer,
		resetTokenTTL: cfg.ResetTokenTTL,
		resetURL:      cfg.ResetURL,
	}
}

// LoginResult is the successful login payload: both tokens plus the public
// user projection.
type LoginResult struct {
	User         models.PublicUser `json:"user"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
}

// Signup registers a new user with a hashed password and returns the public
// projection. The existence check and the insert are not atomic; two
// concurrent signups can both pass the check, and the second insert is then
// rejected by the storage layer's unique index.
func (s *AuthService) Signup(name, email, password string) (*models.PublicUser, error) {
	email = models.NormalizeEmail(email)

	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	user := &models.User{
		Name:  name,
		Email: email,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	public := user.Public()
	return &public, nil
}

// Login authenticates a user and issues access and refresh tokens. An
// unknown email and a wrong password both come back as
// ErrInvalidCredentials so the response does not reveal which was wrong.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	email = models.NormalizeEmail(email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		log.Printf("Login rejected: no account for presented email")
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		log.Printf("Login rejected: wrong password for user %s", user.ID)
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         user.Public(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ForgotPassword issues a reset token for the given email, persists its
// digest and expiry, and queues a reset email carrying the raw token.
func (s *AuthService) ForgotPassword(email string) error {
	email = models.NormalizeEmail(email)

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	rawToken, err := user.GeneratePasswordResetToken(s.resetTokenTTL)
	if err != nil {
		return err
	}
	if err := s.userRepo.Save(user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetLink := fmt.Sprintf("%s/%s", s.resetURL, rawToken)
	body := fmt.Sprintf(
		"Reset your password by clicking this link:\n\n%s\n\nThis link expires in %d minutes.",
		resetLink, int(s.resetTokenTTL.Minutes()),
	)
	if err := s.mailer.Send(mailqueue.Email{
		To:      user.Email,
		Subject: "Password Reset Request",
		Body:    body,
	}); err != nil {
		log.Printf("Failed to queue reset email for user %s: %v", user.ID, err)
		return ErrMailDelivery
	}

	return nil
}

// ResetPassword validates a presented reset token, sets the new password and
// clears the reset fields in the same save so the token is single-use. Two
// concurrent resets with the same still-valid token can both pass the lookup;
// single-use is best-effort, not enforced transactionally.
func (s *AuthService) ResetPassword(rawToken, newPassword string) error {
	digest := models.HashResetToken(rawToken)

	user, err := s.userRepo.GetByResetTokenDigest(digest, time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	user.ClearPasswordResetToken()

	if err := s.userRepo.Save(user); err != nil {
		return fmt.Errorf("failed to save new password: %w", err)
	}
	return nil
}

// CurrentUser returns the public projection for an authenticated user ID.
func (s *AuthService) CurrentUser(id string) (*models.PublicUser, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	public := user.Public()
	return &public, nil
}
