// Package services contains server-side business logic. This file
// implements AuthService: registration, login, and the password-reset
// request/confirm flow.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/dbx"
	"github.com/dmitrijs2005/taskboard/internal/server/auth"
	"github.com/dmitrijs2005/taskboard/internal/server/config"
	"github.com/dmitrijs2005/taskboard/internal/server/mail"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/users"
)

// SessionResult is what a successful login yields: the signed session
// token, its expiry (the transport layer mirrors it onto the cookie), and
// the authenticated user.
type SessionResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// AuthService handles authentication-related operations:
//   - Register: validate, create the user, and log it straight in
//   - Login: verify credentials and mint a session token
//   - RequestPasswordReset / ConfirmPasswordReset: token-based reset
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	mailer                       mail.Mailer
	secretKey                    []byte
	sessionTokenValidityDuration time.Duration
	resetTokenValidityDuration   time.Duration
	resetLinkBaseURL             string
}

// NewAuthService constructs an AuthService using repositories, the mail
// collaborator, and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, mailer mail.Mailer, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		mailer:                       mailer,
		secretKey:                    []byte(cfg.SecretKey),
		sessionTokenValidityDuration: cfg.SessionTokenValidityDuration,
		resetTokenValidityDuration:   cfg.ResetTokenValidityDuration,
		resetLinkBaseURL:             cfg.ResetLinkBaseURL,
	}
}

// Register validates email and password against policy, creates the user,
// and immediately performs Login with the same credentials, so a
// successful registration always yields an authenticated session.
// A duplicate email (case-insensitively) fails with ErrorAlreadyExists.
func (s *AuthService) Register(ctx context.Context, email, password string) (*SessionResult, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.secretKey)
	if err != nil {
		return nil, common.ErrorInternal
	}

	// The duplicate check and the insert share one transaction; the unique
	// index on email backs it up for the race the check cannot see.
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByEmail(ctx, email)
		if err == nil {
			return common.ErrorAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		_, err = repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
		return err
	}); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.Login(ctx, email, password)
}

// Login verifies the credentials and returns a fresh session token.
// An unknown email and a wrong password fail identically with
// ErrorInvalidCredentials, so the response cannot be used to enumerate
// registered emails.
func (s *AuthService) Login(ctx context.Context, email, password string) (*SessionResult, error) {
	email = NormalizeEmail(email)

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash, s.secretKey) {
		return nil, common.ErrorInvalidCredentials
	}

	token, err := auth.GenerateToken(user.Email, auth.PurposeSession, s.secretKey, s.sessionTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &SessionResult{
		Token:     token,
		ExpiresAt: time.Now().Add(s.sessionTokenValidityDuration),
		User:      user,
	}, nil
}

// ResolveSession turns a session token back into its user. Used by the
// transport middleware on every authenticated request. A token whose
// subject no longer resolves (renamed or deleted user) is invalid.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	email, err := auth.GetEmailFromToken(token, auth.PurposeSession, s.secretKey)
	if err != nil {
		return nil, common.ErrorInvalidToken
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidToken
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// RequestPasswordReset issues a short-lived reset token for the account
// and dispatches it inside a reset link via the mail collaborator.
// An unknown email fails with ErrorNotFound.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.Email, auth.PurposePasswordReset, s.secretKey, s.resetTokenValidityDuration)
	if err != nil {
		return common.ErrorInternal
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.resetLinkBaseURL, url.QueryEscape(token))
	body := "Click to reset your password: " + resetURL

	if err := s.mailer.Send(ctx, user.Email, "Password Reset", body); err != nil {
		return fmt.Errorf("error dispatching reset mail: %w", err)
	}

	return nil
}

// ConfirmPasswordReset validates the reset token, checks the new password
// against policy, and stores its hash. Expired, malformed, or
// wrong-purpose tokens fail with ErrorInvalidToken.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	email, err := auth.GetEmailFromToken(token, auth.PurposePasswordReset, s.secretKey)
	if err != nil {
		return common.ErrorInvalidToken
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	hash, err := auth.HashPassword(newPassword, s.secretKey)
	if err != nil {
		return common.ErrorInternal
	}

	if _, err := repo.Update(ctx, user.ID, users.UserUpdate{PasswordHash: &hash}); err != nil {
		return common.ErrorInternal
	}

	return nil
}
