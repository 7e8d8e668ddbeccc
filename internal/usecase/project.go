package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/port"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/repository"
)

var (
	// ErrProjectNotFound indicates the referenced project does not exist among live rows.
	ErrProjectNotFound = errors.New("project not found")
	// ErrProjectExists indicates the project code is already taken by a live project.
	ErrProjectExists = errors.New("project code already taken")
)

// CreateProjectInput captures the payload for creating a project.
type CreateProjectInput struct {
	ProjectCode       string
	ProjectName       string
	AssignedManagerID string
	Detail            string
}

// UpdateProjectInput captures the mutable fields of an existing project,
// addressed by code.
type UpdateProjectInput struct {
	ProjectCode       string
	ProjectName       string
	AssignedManagerID string
	Detail            string
}

// DeleteProjectResult reports the outcome of a cascading project deletion.
// TasksFailed > 0 is a warning-level outcome, not an error.
type DeleteProjectResult struct {
	Project      domain.Project
	TasksDeleted int
	TasksFailed  int
}

// ProjectService handles project lifecycle operations including the
// best-effort task cascade on deletion.
type ProjectService struct {
	projects  port.ProjectRepository
	tasks     port.TaskRepository
	users     port.UserRepository
	publisher port.EventPublisher
	log       *zap.Logger
	now       func() time.Time
}

// NewProjectService constructs a ProjectService.
func NewProjectService(
	projects port.ProjectRepository,
	tasks port.TaskRepository,
	users port.UserRepository,
	publisher port.EventPublisher,
	log *zap.Logger,
) *ProjectService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectService{
		projects:  projects,
		tasks:     tasks,
		users:     users,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// List returns all live projects.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.projects.List(ctx)
}

// GetByCode returns a live project by its code.
func (s *ProjectService) GetByCode(ctx context.Context, code string) (*domain.Project, error) {
	project, err := s.projects.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("lookup project: %w", err)
	}
	return project, nil
}

// Create provisions a new open project. Code uniqueness is checked against
// live rows only.
func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*domain.Project, error) {
	code := strings.TrimSpace(input.ProjectCode)
	if code == "" {
		return nil, fmt.Errorf("project code is required")
	}
	managerID := strings.TrimSpace(input.AssignedManagerID)
	if managerID == "" {
		return nil, fmt.Errorf("assigned manager is required")
	}

	if _, err := s.projects.GetByCode(ctx, code); err == nil {
		return nil, ErrProjectExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check project code: %w", err)
	}

	manager, err := s.users.GetByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup manager: %w", err)
	}
	if manager.Role.Description != domain.RoleManager {
		return nil, fmt.Errorf("assigned user %s is not a manager", manager.Username)
	}

	project := domain.Project{
		ID:                uuid.NewString(),
		ProjectCode:       code,
		ProjectName:       strings.TrimSpace(input.ProjectName),
		AssignedManagerID: manager.ID,
		Detail:            input.Detail,
		Status:            domain.ProjectStatusOpen,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	return &project, nil
}

// Update modifies an existing live project addressed by code.
func (s *ProjectService) Update(ctx context.Context, input UpdateProjectInput) (*domain.Project, error) {
	project, err := s.GetByCode(ctx, input.ProjectCode)
	if err != nil {
		return nil, err
	}

	if input.ProjectName != "" {
		project.ProjectName = strings.TrimSpace(input.ProjectName)
	}
	if input.Detail != "" {
		project.Detail = input.Detail
	}
	if managerID := strings.TrimSpace(input.AssignedManagerID); managerID != "" && managerID != project.AssignedManagerID {
		manager, err := s.users.GetByID(ctx, managerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("lookup manager: %w", err)
		}
		if manager.Role.Description != domain.RoleManager {
			return nil, fmt.Errorf("assigned user %s is not a manager", manager.Username)
		}
		project.AssignedManagerID = manager.ID
	}

	if err := s.projects.Update(ctx, *project); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("update project: %w", err)
	}

	return project, nil
}

// Complete moves a live project to COMPLETE. There is no un-complete path.
func (s *ProjectService) Complete(ctx context.Context, code string) (*domain.Project, error) {
	project, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := s.projects.UpdateStatus(ctx, project.ID, domain.ProjectStatusComplete); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("complete project: %w", err)
	}

	project.Status = domain.ProjectStatusComplete
	return project, nil
}

// Delete tombstones a live project and cascades a best-effort soft delete
// over its tasks. A failing task deletion is logged and counted but never
// aborts the project deletion.
func (s *ProjectService) Delete(ctx context.Context, code string) (DeleteProjectResult, error) {
	var zero DeleteProjectResult

	project, err := s.GetByCode(ctx, code)
	if err != nil {
		return zero, err
	}

	mangled := project.MangledCode()
	if err := s.projects.Tombstone(ctx, project.ID, mangled); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return zero, ErrProjectNotFound
		}
		return zero, fmt.Errorf("tombstone project: %w", err)
	}

	project.ProjectCode = mangled
	project.IsDeleted = true

	result := DeleteProjectResult{Project: *project}

	tasks, err := s.tasks.ListByProject(ctx, project.ID)
	if err != nil {
		s.log.Warn("list project tasks for cascade failed",
			zap.String("project_id", project.ID),
			zap.Error(err),
		)
		return result, nil
	}

	for _, task := range tasks {
		if err := s.tasks.SoftDelete(ctx, task.ID); err != nil {
			result.TasksFailed++
			s.log.Warn("cascade task delete failed",
				zap.String("project_id", project.ID),
				zap.String("task_id", task.ID),
				zap.Error(err),
			)
			continue
		}
		result.TasksDeleted++
	}

	if s.publisher != nil {
		event := domain.ProjectDeletedEvent{
			EventID:      uuid.NewString(),
			ProjectID:    project.ID,
			MangledCode:  mangled,
			TasksDeleted: result.TasksDeleted,
			TasksFailed:  result.TasksFailed,
			DeletedAt:    s.now().UTC(),
		}
		_ = s.publisher.PublishProjectDeleted(ctx, event)
	}

	return result, nil
}

// ListDetails returns the manager's live projects annotated with complete and
// incomplete task counts.
func (s *ProjectService) ListDetails(ctx context.Context, managerID string) ([]domain.ProjectDetails, error) {
	projects, err := s.projects.ListByManager(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("list manager projects: %w", err)
	}

	details := make([]domain.ProjectDetails, 0, len(projects))
	for _, project := range projects {
		complete, err := s.tasks.CountByProjectAndStatus(ctx, project.ID, domain.TaskStatusComplete)
		if err != nil {
			return nil, fmt.Errorf("count complete tasks: %w", err)
		}
		incomplete, err := s.tasks.CountByProjectAndStatusNot(ctx, project.ID, domain.TaskStatusComplete)
		if err != nil {
			return nil, fmt.Errorf("count incomplete tasks: %w", err)
		}

		details = append(details, domain.ProjectDetails{
			Project:             project,
			CompleteTaskCount:   complete,
			IncompleteTaskCount: incomplete,
		})
	}

	return details, nil
}
