package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anandr/kuliahku/internal/app/models"
	"github.com/anandr/kuliahku/internal/app/models/dto"
	"github.com/anandr/kuliahku/internal/app/view"
	"github.com/anandr/kuliahku/internal/pkg/apperrors"
	"github.com/anandr/kuliahku/internal/pkg/auth"
	"github.com/anandr/kuliahku/internal/pkg/logger"
)

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// TokenStore persists and resolves refresh tokens.
type TokenStore interface {
	Store(ctx context.Context, token, userID string, expiresAt time.Time) error
	Get(ctx context.Context, token string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// WelcomeMailer sends the post-registration welcome mail. It is optional;
// a nil mailer disables the mail without failing registration.
type WelcomeMailer interface {
	SendWelcome(ctx context.Context, to string, fullName *string) error
}

// AuthService implements registration, login, token rotation and sign-out.
type AuthService struct {
	userStore  UserStore
	tokenStore TokenStore
	jwtService *auth.JWTService
	mailer     WelcomeMailer
	siteURL    string
	droppers   []view.Dropper
}

// NewAuthService creates a new AuthService. Droppers are the per-user view
// registries to tear down on sign-out.
func NewAuthService(userStore UserStore, tokenStore TokenStore, jwtService *auth.JWTService, mailer WelcomeMailer, siteURL string, droppers ...view.Dropper) *AuthService {
	return &AuthService{
		userStore:  userStore,
		tokenStore: tokenStore,
		jwtService: jwtService,
		mailer:     mailer,
		siteURL:    siteURL,
		droppers:   droppers,
	}
}

// Register creates a new account and signs it in.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		return nil, apperrors.NewValidationError("email", "email is required")
	}
	if len(req.Password) < 8 {
		return nil, apperrors.NewValidationError("password", "password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
	}
	if name := strings.TrimSpace(req.FullName); name != "" {
		user.FullName = &name
	}

	created, err := s.userStore.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(ctx, created.Email, created.FullName); err != nil {
			logger.Warn().Err(err).Str("email", created.Email).Msg("Failed to send welcome email")
		}
	}

	return s.issueTokens(ctx, created)
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	stored, err := s.tokenStore.Get(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.tokenStore.Revoke(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the refresh token and drops the user's cached views.
func (s *AuthService) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken != "" {
		if err := s.tokenStore.Revoke(ctx, refreshToken); err != nil && !errors.Is(err, apperrors.ErrTokenInvalid) {
			return err
		}
	}

	for _, d := range s.droppers {
		d.Drop(userID)
	}

	logger.Info().Str("userID", userID).Msg("User signed out")
	return nil
}

// Session resolves the current session for an authenticated user.
func (s *AuthService) Session(ctx context.Context, userID string) (*dto.SessionResponse, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return &dto.SessionResponse{Authenticated: false}, nil
		}
		return nil, err
	}

	return &dto.SessionResponse{
		Authenticated: true,
		User: &dto.UserResponse{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName,
		},
	}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token pair: %w", err)
	}

	if err := s.tokenStore.Store(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:           accessToken,
			TokenType:             "Bearer",
			ExpiresIn:             expiresIn,
			RefreshToken:          refreshToken,
			RefreshTokenExpiresIn: refreshExpiresIn,
		},
		User: dto.UserResponse{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName,
		},
		RedirectTo: s.siteURL + "/dashboard/default",
	}, nil
}
