package usecase

import (
	"context"
	"sync"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/port"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/repository"
)

// In-memory fakes mirroring the repository soft-delete contracts: lookups see
// live rows only, tombstone/consume are conditional on the row being live.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]domain.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (m *fakeUserRepo) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok || user.IsDeleted {
		return nil, repository.ErrNotFound
	}
	copied := user
	return &copied, nil
}

func (m *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username && !user.IsDeleted {
			copied := user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *fakeUserRepo) Update(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[user.ID]
	if !ok || existing.IsDeleted {
		return repository.ErrNotFound
	}
	user.IsDeleted = false
	m.users[user.ID] = user
	return nil
}

func (m *fakeUserRepo) SetEnabled(_ context.Context, id string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok || user.IsDeleted {
		return repository.ErrNotFound
	}
	user.Enabled = enabled
	m.users[id] = user
	return nil
}

func (m *fakeUserRepo) Tombstone(_ context.Context, id, mangledUsername string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok || user.IsDeleted {
		return repository.ErrNotFound
	}
	user.Username = mangledUsername
	user.IsDeleted = true
	m.users[id] = user
	return nil
}

func (m *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]domain.User, 0, len(m.users))
	for _, user := range m.users {
		if !user.IsDeleted {
			users = append(users, user)
		}
	}
	return users, nil
}

func (m *fakeUserRepo) ListByRole(_ context.Context, roleDescription string) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]domain.User, 0)
	for _, user := range m.users {
		if !user.IsDeleted && user.Role.Description == roleDescription {
			users = append(users, user)
		}
	}
	return users, nil
}

var _ port.UserRepository = (*fakeUserRepo)(nil)

type fakeRoleRepo struct {
	roles []domain.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: []domain.Role{
		{ID: "role-1", Description: domain.RoleAdmin},
		{ID: "role-2", Description: domain.RoleManager},
		{ID: "role-3", Description: domain.RoleEmployee},
	}}
}

func (m *fakeRoleRepo) GetByID(_ context.Context, id string) (*domain.Role, error) {
	for _, role := range m.roles {
		if role.ID == id {
			copied := role
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *fakeRoleRepo) GetByDescription(_ context.Context, description string) (*domain.Role, error) {
	for _, role := range m.roles {
		if role.Description == description {
			copied := role
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *fakeRoleRepo) List(_ context.Context) ([]domain.Role, error) {
	return append([]domain.Role(nil), m.roles...), nil
}

var _ port.RoleRepository = (*fakeRoleRepo)(nil)

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[string]domain.Project
}

func newFakeProjectRepo(projects ...domain.Project) *fakeProjectRepo {
	repo := &fakeProjectRepo{projects: make(map[string]domain.Project)}
	for _, p := range projects {
		repo.projects[p.ID] = p
	}
	return repo
}

func (m *fakeProjectRepo) Create(_ context.Context, project domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[project.ID] = project
	return nil
}

func (m *fakeProjectRepo) GetByCode(_ context.Context, code string) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, project := range m.projects {
		if project.ProjectCode == code && !project.IsDeleted {
			copied := project
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *fakeProjectRepo) Update(_ context.Context, project domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.projects[project.ID]
	if !ok || existing.IsDeleted {
		return repository.ErrNotFound
	}
	project.IsDeleted = false
	m.projects[project.ID] = project
	return nil
}

func (m *fakeProjectRepo) UpdateStatus(_ context.Context, id string, status domain.ProjectStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	project, ok := m.projects[id]
	if !ok || project.IsDeleted {
		return repository.ErrNotFound
	}
	project.Status = status
	m.projects[id] = project
	return nil
}

func (m *fakeProjectRepo) Tombstone(_ context.Context, id, mangledCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	project, ok := m.projects[id]
	if !ok || project.IsDeleted {
		return repository.ErrNotFound
	}
	project.ProjectCode = mangledCode
	project.IsDeleted = true
	m.projects[id] = project
	return nil
}

func (m *fakeProjectRepo) List(_ context.Context) ([]domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	projects := make([]domain.Project, 0, len(m.projects))
	for _, project := range m.projects {
		if !project.IsDeleted {
			projects = append(projects, project)
		}
	}
	return projects, nil
}

func (m *fakeProjectRepo) ListByManager(_ context.Context, managerID string) ([]domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	projects := make([]domain.Project, 0)
	for _, project := range m.projects {
		if !project.IsDeleted && project.AssignedManagerID == managerID {
			projects = append(projects, project)
		}
	}
	return projects, nil
}

func (m *fakeProjectRepo) CountByManager(ctx context.Context, managerID string) (int, error) {
	projects, err := m.ListByManager(ctx, managerID)
	if err != nil {
		return 0, err
	}
	return len(projects), nil
}

var _ port.ProjectRepository = (*fakeProjectRepo)(nil)

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]domain.Task
	// projects lets ListByProjectManager resolve manager ownership.
	projects *fakeProjectRepo
	// softDeleteErr, when set, fails SoftDelete for the listed task IDs.
	softDeleteErr map[string]error
}

func newFakeTaskRepo(tasks ...domain.Task) *fakeTaskRepo {
	repo := &fakeTaskRepo{tasks: make(map[string]domain.Task)}
	for _, t := range tasks {
		repo.tasks[t.ID] = t
	}
	return repo
}

func (m *fakeTaskRepo) Create(_ context.Context, task domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = task
	return nil
}

func (m *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok || task.IsDeleted {
		return nil, repository.ErrNotFound
	}
	copied := task
	return &copied, nil
}

func (m *fakeTaskRepo) Update(_ context.Context, task domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.tasks[task.ID]
	if !ok || existing.IsDeleted {
		return repository.ErrNotFound
	}
	task.IsDeleted = false
	m.tasks[task.ID] = task
	return nil
}

func (m *fakeTaskRepo) UpdateStatus(_ context.Context, id string, status domain.TaskStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok || task.IsDeleted {
		return repository.ErrNotFound
	}
	task.Status = status
	m.tasks[id] = task
	return nil
}

func (m *fakeTaskRepo) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.softDeleteErr[id]; ok {
		return err
	}
	task, ok := m.tasks[id]
	if !ok || task.IsDeleted {
		return repository.ErrNotFound
	}
	task.IsDeleted = true
	m.tasks[id] = task
	return nil
}

func (m *fakeTaskRepo) List(_ context.Context) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := make([]domain.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		if !task.IsDeleted {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (m *fakeTaskRepo) ListByProject(_ context.Context, projectID string) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := make([]domain.Task, 0)
	for _, task := range m.tasks {
		if !task.IsDeleted && task.ProjectID == projectID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (m *fakeTaskRepo) ListByEmployee(_ context.Context, employeeID string) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := make([]domain.Task, 0)
	for _, task := range m.tasks {
		if !task.IsDeleted && task.AssignedEmployeeID == employeeID {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (m *fakeTaskRepo) ListByEmployeeStatusNot(_ context.Context, employeeID string, status domain.TaskStatus) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := make([]domain.Task, 0)
	for _, task := range m.tasks {
		if !task.IsDeleted && task.AssignedEmployeeID == employeeID && task.Status != status {
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

func (m *fakeTaskRepo) ListByProjectManager(ctx context.Context, managerID string) ([]domain.Task, error) {
	if m.projects == nil {
		return nil, nil
	}
	projects, err := m.projects.ListByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0)
	for _, project := range projects {
		projectTasks, err := m.ListByProject(ctx, project.ID)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, projectTasks...)
	}
	return tasks, nil
}

func (m *fakeTaskRepo) CountByEmployee(ctx context.Context, employeeID string) (int, error) {
	tasks, err := m.ListByEmployee(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}

func (m *fakeTaskRepo) CountByProjectAndStatus(ctx context.Context, projectID string, status domain.TaskStatus) (int, error) {
	tasks, err := m.ListByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, task := range tasks {
		if task.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *fakeTaskRepo) CountByProjectAndStatusNot(ctx context.Context, projectID string, status domain.TaskStatus) (int, error) {
	tasks, err := m.ListByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, task := range tasks {
		if task.Status != status {
			count++
		}
	}
	return count, nil
}

var _ port.TaskRepository = (*fakeTaskRepo)(nil)

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]domain.ConfirmationToken
}

func newFakeTokenRepo(tokens ...domain.ConfirmationToken) *fakeTokenRepo {
	repo := &fakeTokenRepo{tokens: make(map[string]domain.ConfirmationToken)}
	for _, t := range tokens {
		repo.tokens[t.ID] = t
	}
	return repo
}

func (m *fakeTokenRepo) Create(_ context.Context, token domain.ConfirmationToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.ID] = token
	return nil
}

func (m *fakeTokenRepo) GetByToken(_ context.Context, value string) (*domain.ConfirmationToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, token := range m.tokens {
		if token.Token == value && !token.IsDeleted {
			copied := token
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *fakeTokenRepo) Consume(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[id]
	if !ok || token.IsDeleted {
		return repository.ErrNotFound
	}
	token.IsDeleted = true
	m.tokens[id] = token
	return nil
}

var _ port.TokenRepository = (*fakeTokenRepo)(nil)

type recordingPublisher struct {
	mu        sync.Mutex
	registered []domain.UserRegisteredEvent
	confirmed  []domain.UserConfirmedEvent
	userDel    []domain.UserDeletedEvent
	projectDel []domain.ProjectDeletedEvent
	taskDel    []domain.TaskDeletedEvent
}

func (m *recordingPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registered = append(m.registered, event)
	return nil
}

func (m *recordingPublisher) PublishUserConfirmed(_ context.Context, event domain.UserConfirmedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmed = append(m.confirmed, event)
	return nil
}

func (m *recordingPublisher) PublishUserDeleted(_ context.Context, event domain.UserDeletedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userDel = append(m.userDel, event)
	return nil
}

func (m *recordingPublisher) PublishProjectDeleted(_ context.Context, event domain.ProjectDeletedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projectDel = append(m.projectDel, event)
	return nil
}

func (m *recordingPublisher) PublishTaskDeleted(_ context.Context, event domain.TaskDeletedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskDel = append(m.taskDel, event)
	return nil
}

var _ port.EventPublisher = (*recordingPublisher)(nil)
