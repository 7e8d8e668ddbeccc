package port

import (
	"context"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
)

// UserRepository persists users. Lookups operate on live rows only; deleted
// rows are invisible to every method except Tombstone's guard.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user domain.User) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	// Tombstone renames the user's unique key and flags the row deleted in a
	// single atomic statement. Returns repository.ErrNotFound when the row is
	// already deleted, which makes concurrent double deletes race-safe.
	Tombstone(ctx context.Context, id, mangledUsername string) error
	List(ctx context.Context) ([]domain.User, error)
	ListByRole(ctx context.Context, roleDescription string) ([]domain.User, error)
}

// RoleRepository resolves the small fixed role set.
type RoleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByDescription(ctx context.Context, description string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
}
