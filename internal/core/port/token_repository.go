package port

import (
	"context"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
)

// TokenRepository persists confirmation tokens, scoped to live rows.
type TokenRepository interface {
	Create(ctx context.Context, token domain.ConfirmationToken) error
	GetByToken(ctx context.Context, token string) (*domain.ConfirmationToken, error)
	// Consume soft-deletes the token, guarded on the row still being live.
	// Returns repository.ErrNotFound when the token was already consumed, so
	// concurrent double redemption has exactly one winner.
	Consume(ctx context.Context, id string) error
}
