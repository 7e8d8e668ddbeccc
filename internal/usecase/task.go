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
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/repository"
)

// ErrTaskNotFound indicates the referenced task does not exist among live rows.
var ErrTaskNotFound = errors.New("task not found")

// CreateTaskInput captures the payload for creating a task. Status and
// assignment date are owned by the service, not the caller.
type CreateTaskInput struct {
	ProjectCode        string
	AssignedEmployeeID string
	Subject            string
	Detail             string
}

// UpdateTaskInput captures the mutable fields of an existing task.
type UpdateTaskInput struct {
	ID                 string
	AssignedEmployeeID string
	Subject            string
	Detail             string
	Status             domain.TaskStatus
}

// TaskService handles task lifecycle operations.
type TaskService struct {
	tasks     port.TaskRepository
	projects  port.ProjectRepository
	users     port.UserRepository
	publisher port.EventPublisher
	now       func() time.Time
}

// NewTaskService constructs a TaskService.
func NewTaskService(tasks port.TaskRepository, projects port.ProjectRepository, users port.UserRepository, publisher port.EventPublisher) *TaskService {
	return &TaskService{
		tasks:     tasks,
		projects:  projects,
		users:     users,
		publisher: publisher,
		now:       time.Now,
	}
}

// List returns all live tasks.
func (s *TaskService) List(ctx context.Context) ([]domain.Task, error) {
	return s.tasks.List(ctx)
}

// GetByID returns a live task.
func (s *TaskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("lookup task: %w", err)
	}
	return task, nil
}

// Create provisions a new task on a live project. Status is forced OPEN and
// the assignment date is today, whatever the caller sent.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	code := strings.TrimSpace(input.ProjectCode)
	if code == "" {
		return nil, fmt.Errorf("project code is required")
	}

	project, err := s.projects.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("lookup project: %w", err)
	}

	employeeID := strings.TrimSpace(input.AssignedEmployeeID)
	if employeeID != "" {
		if _, err := s.users.GetByID(ctx, employeeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("lookup employee: %w", err)
		}
	}

	task := domain.Task{
		ID:                 uuid.NewString(),
		ProjectID:          project.ID,
		AssignedEmployeeID: employeeID,
		Subject:            strings.TrimSpace(input.Subject),
		Detail:             input.Detail,
		Status:             domain.TaskStatusOpen,
		AssignedDate:       s.now().UTC().Truncate(24 * time.Hour),
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return &task, nil
}

// Update modifies an existing live task. The target status is accepted as
// given; the update path enforces no task state machine beyond existence.
func (s *TaskService) Update(ctx context.Context, input UpdateTaskInput) (*domain.Task, error) {
	task, err := s.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Subject != "" {
		task.Subject = strings.TrimSpace(input.Subject)
	}
	if input.Detail != "" {
		task.Detail = input.Detail
	}
	if input.Status != "" {
		task.Status = input.Status
	}
	if employeeID := strings.TrimSpace(input.AssignedEmployeeID); employeeID != "" && employeeID != task.AssignedEmployeeID {
		if _, err := s.users.GetByID(ctx, employeeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("lookup employee: %w", err)
		}
		task.AssignedEmployeeID = employeeID
	}

	if err := s.tasks.Update(ctx, *task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}

	return task, nil
}

// UpdateStatus sets a live task's status to the caller-supplied value.
func (s *TaskService) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.UpdateStatus(ctx, task.ID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task status: %w", err)
	}

	task.Status = status
	return task, nil
}

// Delete soft-deletes a live task.
func (s *TaskService) Delete(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.SoftDelete(ctx, task.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("delete task: %w", err)
	}

	task.IsDeleted = true

	if s.publisher != nil {
		event := domain.TaskDeletedEvent{
			EventID:   uuid.NewString(),
			TaskID:    task.ID,
			ProjectID: task.ProjectID,
			DeletedAt: s.now().UTC(),
		}
		_ = s.publisher.PublishTaskDeleted(ctx, event)
	}

	return task, nil
}

// ListPendingByEmployee returns the employee's live tasks that are not yet complete.
func (s *TaskService) ListPendingByEmployee(ctx context.Context, employeeID string) ([]domain.Task, error) {
	return s.tasks.ListByEmployeeStatusNot(ctx, employeeID, domain.TaskStatusComplete)
}

// ListByProjectManager returns live tasks across all live projects assigned
// to the given manager.
func (s *TaskService) ListByProjectManager(ctx context.Context, managerID string) ([]domain.Task, error) {
	return s.tasks.ListByProjectManager(ctx, managerID)
}
