package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/worldhost-group/support-dashboard/internal/auth"
	"github.com/worldhost-group/support-dashboard/internal/config"
	"github.com/worldhost-group/support-dashboard/internal/domain"
	"github.com/worldhost-group/support-dashboard/internal/repository"
	apperrors "github.com/worldhost-group/support-dashboard/pkg/util"
)

// AuthService handles staff signup, session login/logout and the extension's
// token login.
type AuthService struct {
	users    repository.UserRepository
	sessions *auth.SessionStore
	tokens   *auth.TokenManager
	cfg      config.SessionConfig
}

// NewAuthService constructs the service.
func NewAuthService(users repository.UserRepository, sessions *auth.SessionStore, tokens *auth.TokenManager, cfg config.SessionConfig) *AuthService {
	return &AuthService{users: users, sessions: sessions, tokens: tokens, cfg: cfg}
}

// SignupInput describes registration payload.
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ProfileUpdateInput carries profile edits; nil fields are untouched.
type ProfileUpdateInput struct {
	Name       *string
	FirstName  *string
	LastName   *string
	Phone      *string
	Bio        *string
	Location   *string
	Facebook   *string
	Twitter    *string
	LinkedIn   *string
	Instagram  *string
	Country    *string
	CityState  *string
	PostalCode *string
	TaxID      *string
	AvatarURL  *string
}

// Signup registers a new staff user and opens a session.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, string, time.Time, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	password := strings.TrimSpace(input.Password)
	if email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email and password are required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    optional(input.FirstName),
		LastName:     optional(input.LastName),
	}
	if user.FirstName != nil {
		name := strings.TrimSpace(input.FirstName + " " + input.LastName)
		user.Name = &name
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, expiresAt, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, expiresAt, nil
}

// Login verifies credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.verifyCredentials(ctx, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	token, expiresAt, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, expiresAt, nil
}

// Logout destroys the session. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ExtensionLogin verifies credentials and issues a short-lived JWT for the
// browser extension's ingestion requests.
func (s *AuthService) ExtensionLogin(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.verifyCredentials(ctx, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, expiresAt, nil
}

// UpdateProfile applies profile edits for the current user.
func (s *AuthService) UpdateProfile(ctx context.Context, user *domain.User, input ProfileUpdateInput) (*domain.User, error) {
	updated := *user
	apply := func(dst **string, src *string) {
		if src != nil {
			*dst = optional(*src)
		}
	}
	apply(&updated.Name, input.Name)
	apply(&updated.FirstName, input.FirstName)
	apply(&updated.LastName, input.LastName)
	apply(&updated.Phone, input.Phone)
	apply(&updated.Bio, input.Bio)
	apply(&updated.Location, input.Location)
	apply(&updated.Facebook, input.Facebook)
	apply(&updated.Twitter, input.Twitter)
	apply(&updated.LinkedIn, input.LinkedIn)
	apply(&updated.Instagram, input.Instagram)
	apply(&updated.Country, input.Country)
	apply(&updated.CityState, input.CityState)
	apply(&updated.PostalCode, input.PostalCode)
	apply(&updated.TaxID, input.TaxID)
	apply(&updated.AvatarURL, input.AvatarURL)

	if err := s.users.Update(ctx, &updated); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &updated, nil
}

func (s *AuthService) verifyCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return user, nil
}
