package usecase

import (
	"context"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/port"
)

// RoleService exposes the seeded role catalogue.
type RoleService struct {
	roles port.RoleRepository
}

// NewRoleService constructs a RoleService.
func NewRoleService(roles port.RoleRepository) *RoleService {
	return &RoleService{roles: roles}
}

// List returns all roles.
func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	return s.roles.List(ctx)
}
