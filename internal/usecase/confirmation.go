package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/port"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/security"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/repository"
)

const confirmationTokenBytes = 32

var (
	// ErrTokenNotFound indicates the confirmation token is unknown or already consumed.
	ErrTokenNotFound = errors.New("confirmation token not found")
	// ErrTokenExpired indicates the token exists but today falls outside its two valid calendar days.
	ErrTokenExpired = errors.New("confirmation token expired")
)

// ConfirmationService owns the confirmation token lifecycle: issuance at
// registration and single-use redemption that enables the owner.
type ConfirmationService struct {
	tokens    port.TokenRepository
	users     port.UserRepository
	publisher port.EventPublisher
	now       func() time.Time
}

// NewConfirmationService constructs a ConfirmationService.
func NewConfirmationService(tokens port.TokenRepository, users port.UserRepository, publisher port.EventPublisher) *ConfirmationService {
	return &ConfirmationService{
		tokens:    tokens,
		users:     users,
		publisher: publisher,
		now:       time.Now,
	}
}

// WithClock injects a custom clock, primarily for testing.
func (s *ConfirmationService) WithClock(now func() time.Time) *ConfirmationService {
	if now != nil {
		s.now = now
	}
	return s
}

// Issue generates and persists a confirmation token for the given user.
// The token is valid on its issue day and the following calendar day.
func (s *ConfirmationService) Issue(ctx context.Context, userID string) (domain.ConfirmationToken, error) {
	raw, err := security.NewOpaqueToken(confirmationTokenBytes)
	if err != nil {
		return domain.ConfirmationToken{}, fmt.Errorf("generate confirmation token: %w", err)
	}

	issued := s.now().UTC().Truncate(24 * time.Hour)
	token := domain.ConfirmationToken{
		ID:        uuid.NewString(),
		Token:     raw,
		UserID:    userID,
		IssuedAt:  issued,
		ExpiresAt: issued.AddDate(0, 0, 1),
	}

	if err := s.tokens.Create(ctx, token); err != nil {
		return domain.ConfirmationToken{}, fmt.Errorf("store confirmation token: %w", err)
	}

	return token, nil
}

// Redeem validates and consumes a confirmation token, enabling its owner.
// Consumption happens before enablement so a concurrent second redeemer
// observes the token as gone and fails without double-enabling.
func (s *ConfirmationService) Redeem(ctx context.Context, rawToken string) (domain.User, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return domain.User{}, ErrTokenNotFound
	}

	token, err := s.tokens.GetByToken(ctx, rawToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrTokenNotFound
		}
		return domain.User{}, fmt.Errorf("lookup confirmation token: %w", err)
	}

	if !token.ValidOn(s.now()) {
		return domain.User{}, ErrTokenExpired
	}

	if err := s.tokens.Consume(ctx, token.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrTokenNotFound
		}
		return domain.User{}, fmt.Errorf("consume confirmation token: %w", err)
	}

	if err := s.users.SetEnabled(ctx, token.UserID, true); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrTokenNotFound
		}
		return domain.User{}, fmt.Errorf("enable user: %w", err)
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup confirmed user: %w", err)
	}

	if s.publisher != nil {
		event := domain.UserConfirmedEvent{
			EventID:     uuid.NewString(),
			UserID:      user.ID,
			Username:    user.Username,
			ConfirmedAt: s.now().UTC(),
		}
		_ = s.publisher.PublishUserConfirmed(ctx, event)
	}

	return *user, nil
}
