package port

import (
	"context"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
)

// ProjectRepository persists projects, scoped to live rows.
type ProjectRepository interface {
	Create(ctx context.Context, project domain.Project) error
	GetByCode(ctx context.Context, code string) (*domain.Project, error)
	Update(ctx context.Context, project domain.Project) error
	UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) error
	// Tombstone renames the project code and flags the row deleted atomically,
	// same contract as UserRepository.Tombstone.
	Tombstone(ctx context.Context, id, mangledCode string) error
	List(ctx context.Context) ([]domain.Project, error)
	ListByManager(ctx context.Context, managerID string) ([]domain.Project, error)
	CountByManager(ctx context.Context, managerID string) (int, error)
}

// TaskRepository persists tasks, scoped to live rows.
type TaskRepository interface {
	Create(ctx context.Context, task domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, task domain.Task) error
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Task, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]domain.Task, error)
	ListByEmployeeStatusNot(ctx context.Context, employeeID string, status domain.TaskStatus) ([]domain.Task, error)
	ListByProjectManager(ctx context.Context, managerID string) ([]domain.Task, error)
	CountByEmployee(ctx context.Context, employeeID string) (int, error)
	CountByProjectAndStatus(ctx context.Context, projectID string, status domain.TaskStatus) (int, error)
	CountByProjectAndStatusNot(ctx context.Context, projectID string, status domain.TaskStatus) (int, error)
}
