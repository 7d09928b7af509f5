package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/internship-tracker/internal/repositories"
	"github.com/SAP-F-2025/internship-tracker/internal/session"
	"github.com/SAP-F-2025/internship-tracker/internal/utils"
	"github.com/SAP-F-2025/internship-tracker/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	sessions  *session.Manager
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAuthService(repo repositories.Repository, sessions *session.Manager, logger *slog.Logger, validator *validator.Validator) AuthService {
	return &authService{
		repo:      repo,
		sessions:  sessions,
		logger:    logger,
		validator: validator,
	}
}

// Login verifies the credentials and opens a session on the portal of the user's role.
// Unknown emails and wrong passwords fail with the same error after the same bcrypt work.
func (s *authService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	req := &validator.LoginRequest{Email: email, Password: password}
	if verrs := s.validator.Business().ValidateLogin(req); len(verrs) > 0 {
		return nil, validationFailed(verrs)
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.BurnPasswordCheck(req.Password)
			s.logger.Info("Login rejected", "reason", "unknown_account")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := utils.CheckPassword(user.PasswordHash, req.Password); err != nil {
		s.logger.Info("Login rejected", "reason", "password_mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, user)
	if err != nil {
		if errors.Is(err, session.ErrNoPortal) {
			s.logger.Warn("Login rejected", "reason", "no_portal_for_role", "user_id", user.ID, "role", user.Role)
			return nil, fmt.Errorf("%w: role %q has no dashboard", ErrForbidden, user.Role)
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "role", user.Role, "portal", sess.Portal)
	return sess, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// Authenticate resolves a session cookie value into a live session.
func (s *authService) Authenticate(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, session.ErrSessionExpired) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return sess, nil
}
