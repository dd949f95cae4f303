package services

import (
	"context"

	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/pkg/common"
)

// RegisterRequest carries a sign-up submission.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// ConfirmRequest carries the emailed confirmation code.
type ConfirmRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// LoginRequest carries a credential exchange.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ConfirmForgotPasswordRequest completes a password reset.
type ConfirmForgotPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// AddToGroupRequest assigns a role group to an existing user.
type AddToGroupRequest struct {
	Email string `json:"email" validate:"required,email"`
	Group string `json:"group" validate:"required"`
}

// AuthService validates auth requests and forwards them to the identity
// provider. It holds no state of its own; sessions, codes and password
// policy all live in the provider.
type AuthService struct {
	provider ports.IdentityProvider
	logger   *zap.Logger
}

// NewAuthService creates the auth service.
func NewAuthService(provider ports.IdentityProvider, logger *zap.Logger) *AuthService {
	return &AuthService{provider: provider, logger: logger}
}

// Register signs up a new user and returns the provider's user id.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if err := common.ValidateStruct(req); err != nil {
		return "", err
	}
	return s.provider.Register(ctx, req.Email, req.Password)
}

// Confirm completes sign-up with the confirmation code.
func (s *AuthService) Confirm(ctx context.Context, req ConfirmRequest) error {
	if err := common.ValidateStruct(req); err != nil {
		return err
	}
	return s.provider.Confirm(ctx, req.Email, req.Code)
}

// Login exchanges credentials for tokens.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*ports.Credentials, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}
	creds, err := s.provider.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", zap.String("email", req.Email))
	return creds, nil
}

// ForgotPassword starts the reset flow.
func (s *AuthService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	if err := common.ValidateStruct(req); err != nil {
		return err
	}
	return s.provider.ForgotPassword(ctx, req.Email)
}

// ConfirmForgotPassword completes the reset flow.
func (s *AuthService) ConfirmForgotPassword(ctx context.Context, req ConfirmForgotPasswordRequest) error {
	if err := common.ValidateStruct(req); err != nil {
		return err
	}
	return s.provider.ConfirmForgotPassword(ctx, req.Email, req.Code, req.NewPassword)
}

// AddToGroup assigns a role group to a user.
func (s *AuthService) AddToGroup(ctx context.Context, req AddToGroupRequest) error {
	if err := common.ValidateStruct(req); err != nil {
		return err
	}
	return s.provider.AddToGroup(ctx, req.Email, req.Group)
}
