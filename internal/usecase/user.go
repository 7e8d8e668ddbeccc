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

var (
	// ErrUserNotFound indicates the referenced user does not exist among live rows.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists indicates the username is already taken by a live user.
	ErrUserExists = errors.New("username already taken")
	// ErrUserLinked indicates deletion is blocked by live dependent records.
	ErrUserLinked = errors.New("user is linked by a project or a task")
	// ErrRoleNotFound indicates the requested role does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrForbidden indicates the caller's security context does not satisfy the route policy.
	ErrForbidden = errors.New("access denied")
	// ErrPasswordPolicyViolation indicates the password does not satisfy complexity requirements.
	ErrPasswordPolicyViolation = errors.New("password does not meet complexity requirements")
)

// RegisterUserInput captures the payload for creating a user.
type RegisterUserInput struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
	Phone     string
	Gender    domain.Gender
	Role      string
}

// RegisterUserResult bundles the pending user with the confirmation token the
// caller must dispatch to the contact address.
type RegisterUserResult struct {
	User  domain.User
	Token domain.ConfirmationToken
}

// UpdateUserInput captures the mutable fields of an existing user. The target
// is addressed by username.
type UpdateUserInput struct {
	Username  string
	FirstName string
	LastName  string
	Password  string
	Phone     string
	Gender    domain.Gender
	Role      string
}

// UserService handles user lifecycle operations, including the deletability
// rules guarding logical deletion.
type UserService struct {
	users          port.UserRepository
	roles          port.RoleRepository
	projects       port.ProjectRepository
	tasks          port.TaskRepository
	confirmations  *ConfirmationService
	publisher      port.EventPublisher
	passwordPolicy *security.PasswordPolicy
	now            func() time.Time
}

// NewUserService constructs a UserService.
func NewUserService(
	users port.UserRepository,
	roles port.RoleRepository,
	projects port.ProjectRepository,
	tasks port.TaskRepository,
	confirmations *ConfirmationService,
	publisher port.EventPublisher,
	passwordPolicy *security.PasswordPolicy,
) *UserService {
	if passwordPolicy == nil {
		passwordPolicy = security.NewPasswordPolicy()
	}
	return &UserService{
		users:          users,
		roles:          roles,
		projects:       projects,
		tasks:          tasks,
		confirmations:  confirmations,
		publisher:      publisher,
		passwordPolicy: passwordPolicy,
		now:            time.Now,
	}
}

// Register creates a disabled user and issues its confirmation token.
// Uniqueness is checked against live rows only, so a tombstoned user's
// original username is immediately reusable.
func (s *UserService) Register(ctx context.Context, input RegisterUserInput) (RegisterUserResult, error) {
	var zero RegisterUserResult

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return zero, fmt.Errorf("username is required")
	}
	password := strings.TrimSpace(input.Password)
	if password == "" {
		return zero, fmt.Errorf("password is required")
	}

	if err := s.passwordPolicy.Validate(password, username, input.Phone); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrPasswordPolicyViolation, err)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return zero, ErrUserExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return zero, fmt.Errorf("check username: %w", err)
	}

	roleName := strings.TrimSpace(input.Role)
	if roleName == "" {
		roleName = domain.RoleEmployee
	}
	role, err := s.roles.GetByDescription(ctx, roleName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, ErrRoleNotFound
		}
		return zero, fmt.Errorf("lookup role: %w", err)
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return zero, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Username:     username,
		PasswordHash: passwordHash,
		Gender:       input.Gender,
		Enabled:      false,
		Role:         *role,
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		user.Phone = &phone
	}

	if err := s.users.Create(ctx, user); err != nil {
		return zero, fmt.Errorf("create user: %w", err)
	}

	token, err := s.confirmations.Issue(ctx, user.ID)
	if err != nil {
		return zero, err
	}

	if s.publisher != nil {
		event := domain.UserRegisteredEvent{
			EventID:      uuid.NewString(),
			UserID:       user.ID,
			Username:     user.Username,
			Role:         user.Role.Description,
			RegisteredAt: s.now().UTC(),
		}
		_ = s.publisher.PublishUserRegistered(ctx, event)
	}

	return RegisterUserResult{User: user, Token: token}, nil
}

// List returns all live users.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// ListByRole returns live users holding the named role.
func (s *UserService) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, ErrRoleNotFound
	}
	return s.users.ListByRole(ctx, role)
}

// GetByUsername returns a live user's profile. Callers may read their own
// profile; Admins may read any.
func (s *UserService) GetByUsername(ctx context.Context, sctx domain.SecurityContext, username string) (*domain.User, error) {
	if !sctx.Authenticated {
		return nil, ErrForbidden
	}
	if sctx.Username != username && !sctx.IsAdmin() {
		return nil, ErrForbidden
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	return user, nil
}

// Update modifies an existing enabled user addressed by username.
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUserNotFound
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.Enabled {
		return nil, ErrUserNotConfirmed
	}

	if input.FirstName != "" {
		user.FirstName = strings.TrimSpace(input.FirstName)
	}
	if input.LastName != "" {
		user.LastName = strings.TrimSpace(input.LastName)
	}
	if input.Gender != "" {
		user.Gender = input.Gender
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		user.Phone = &phone
	}

	if password := strings.TrimSpace(input.Password); password != "" {
		if err := s.passwordPolicy.Validate(password, username, input.Phone); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPasswordPolicyViolation, err)
		}
		hashed, err := security.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hashed
	}

	if roleName := strings.TrimSpace(input.Role); roleName != "" {
		role, err := s.roles.GetByDescription(ctx, roleName)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrRoleNotFound
			}
			return nil, fmt.Errorf("lookup role: %w", err)
		}
		user.Role = *role
	}

	if err := s.users.Update(ctx, *user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// Delete tombstones a live user addressed by username. A Manager with live
// projects or an Employee with live tasks is not deletable. The rename and
// the deletion flag land in one conditional UPDATE, so a concurrent reader
// never observes a renamed-but-live row and a concurrent second delete loses.
func (s *UserService) Delete(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	switch user.Role.Description {
	case domain.RoleManager:
		count, err := s.projects.CountByManager(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("count manager projects: %w", err)
		}
		if count > 0 {
			return nil, ErrUserLinked
		}
	case domain.RoleEmployee:
		count, err := s.tasks.CountByEmployee(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("count employee tasks: %w", err)
		}
		if count > 0 {
			return nil, ErrUserLinked
		}
	}

	mangled := user.MangledUsername()
	if err := s.users.Tombstone(ctx, user.ID, mangled); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("tombstone user: %w", err)
	}

	user.Username = mangled
	user.IsDeleted = true

	if s.publisher != nil {
		event := domain.UserDeletedEvent{
			EventID:         uuid.NewString(),
			UserID:          user.ID,
			MangledUsername: mangled,
			DeletedAt:       s.now().UTC(),
		}
		_ = s.publisher.PublishUserDeleted(ctx, event)
	}

	return user, nil
}
