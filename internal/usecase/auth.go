package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/port"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/security"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided username or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotConfirmed indicates the account exists but was never confirmed.
	ErrUserNotConfirmed = errors.New("account pending confirmation")
)

// AuthService coordinates authentication flows: credential exchange on login
// and bearer credential identification for the request pipeline.
type AuthService struct {
	users port.UserRepository
	codec *security.CredentialCodec
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users port.UserRepository, codec *security.CredentialCodec) *AuthService {
	return &AuthService{users: users, codec: codec}
}

// Authenticate validates credentials and issues a signed bearer token.
// Unknown usernames and wrong passwords collapse into the same failure.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	if !user.Enabled {
		return "", ErrUserNotConfirmed
	}

	token, err := s.codec.Issue(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}

// Identify resolves a raw bearer credential into a SecurityContext. Bad
// signatures, expiry, and unknown or disabled subjects all surface as errors;
// the gate decides whether that demotes the request to anonymous.
func (s *AuthService) Identify(ctx context.Context, rawToken string) (domain.SecurityContext, error) {
	claims, err := s.codec.Verify(rawToken)
	if err != nil {
		return domain.SecurityContext{}, err
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.SecurityContext{}, security.ErrInvalidToken
		}
		return domain.SecurityContext{}, fmt.Errorf("lookup subject: %w", err)
	}

	if !user.Enabled {
		return domain.SecurityContext{}, security.ErrInvalidToken
	}

	return domain.SecurityContext{
		SubjectID:     user.ID,
		Username:      user.Username,
		Role:          user.Role.Description,
		Authenticated: true,
	}, nil
}
