package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/repository"
)

// TaskRepository implements port.TaskRepository using PostgreSQL.
type TaskRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTaskRepository wires a PostgreSQL-backed task repository.
func NewTaskRepository(exec pgExecutor) *TaskRepository {
	repo := &TaskRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *TaskRepository) WithTx(tx pgx.Tx) *TaskRepository {
	if tx == nil {
		return r
	}
	return &TaskRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

var taskColumns = []string{
	"t.id",
	"t.project_id",
	"t.assigned_employee_id",
	"t.subject",
	"t.detail",
	"t.status",
	"t.assigned_date",
	"t.is_deleted",
}

func (r *TaskRepository) selectTasks() squirrel.SelectBuilder {
	return r.builder.Select(taskColumns...).
		From("ticketing.tasks t").
		Where(squirrel.Eq{"t.is_deleted": false})
}

// Create inserts a new task row.
func (r *TaskRepository) Create(ctx context.Context, task domain.Task) error {
	stmt, args, err := r.builder.Insert("ticketing.tasks").
		Columns(
			"id",
			"project_id",
			"assigned_employee_id",
			"subject",
			"detail",
			"status",
			"assigned_date",
			"is_deleted",
		).
		Values(
			task.ID,
			task.ProjectID,
			task.AssignedEmployeeID,
			task.Subject,
			task.Detail,
			task.Status,
			task.AssignedDate,
			task.IsDeleted,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert task sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	return nil
}

// GetByID retrieves a live task by identifier.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	stmt, args, err := r.selectTasks().Where(squirrel.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select task sql: %w", err)
	}

	var task domain.Task
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&task.ID,
		&task.ProjectID,
		&task.AssignedEmployeeID,
		&task.Subject,
		&task.Detail,
		&task.Status,
		&task.AssignedDate,
		&task.IsDeleted,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	return &task, nil
}

// Update modifies an existing live task's fields.
func (r *TaskRepository) Update(ctx context.Context, task domain.Task) error {
	stmt, args, err := r.builder.Update("ticketing.tasks").
		Set("project_id", task.ProjectID).
		Set("assigned_employee_id", task.AssignedEmployeeID).
		Set("subject", task.Subject).
		Set("detail", task.Detail).
		Set("status", task.Status).
		Where(squirrel.Eq{"id": task.ID, "is_deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update task sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateStatus sets a live task's status to the caller-supplied value.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	stmt, args, err := r.builder.Update("ticketing.tasks").
		Set("status", status).
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update task status sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SoftDelete marks a live task deleted. Already-deleted rows report ErrNotFound.
func (r *TaskRepository) SoftDelete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("ticketing.tasks").
		Set("is_deleted", true).
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete task sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("soft delete task: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all live tasks ordered by assignment date.
func (r *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	stmt, args, err := r.selectTasks().OrderBy("t.assigned_date ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tasks sql: %w", err)
	}

	return r.queryTasks(ctx, stmt, args)
}

// ListByProject returns live tasks belonging to the given project.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	stmt, args, err := r.selectTasks().
		Where(squirrel.Eq{"t.project_id": projectID}).
		OrderBy("t.assigned_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tasks by project sql: %w", err)
	}

	return r.queryTasks(ctx, stmt, args)
}

// ListByEmployee returns live tasks assigned to the given employee.
func (r *TaskRepository) ListByEmployee(ctx context.Context, employeeID string) ([]domain.Task, error) {
	stmt, args, err := r.selectTasks().
		Where(squirrel.Eq{"t.assigned_employee_id": employeeID}).
		OrderBy("t.assigned_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tasks by employee sql: %w", err)
	}

	return r.queryTasks(ctx, stmt, args)
}

// ListByEmployeeStatusNot returns the employee's live tasks excluding a status.
func (r *TaskRepository) ListByEmployeeStatusNot(ctx context.Context, employeeID string, status domain.TaskStatus) ([]domain.Task, error) {
	stmt, args, err := r.selectTasks().
		Where(squirrel.Eq{"t.assigned_employee_id": employeeID}).
		Where(squirrel.NotEq{"t.status": status}).
		OrderBy("t.assigned_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tasks by employee and status sql: %w", err)
	}

	return r.queryTasks(ctx, stmt, args)
}

// ListByProjectManager returns live tasks across all live projects assigned
// to the given manager.
func (r *TaskRepository) ListByProjectManager(ctx context.Context, managerID string) ([]domain.Task, error) {
	stmt, args, err := r.selectTasks().
		Join("ticketing.projects p ON p.id = t.project_id").
		Where(squirrel.Eq{"p.assigned_manager_id": managerID, "p.is_deleted": false}).
		OrderBy("t.assigned_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tasks by manager sql: %w", err)
	}

	return r.queryTasks(ctx, stmt, args)
}

// CountByEmployee counts live tasks assigned to the given employee.
func (r *TaskRepository) CountByEmployee(ctx context.Context, employeeID string) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("ticketing.tasks").
		Where(squirrel.Eq{"assigned_employee_id": employeeID, "is_deleted": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count tasks sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}

	return count, nil
}

// CountByProjectAndStatus counts live project tasks with the given status.
func (r *TaskRepository) CountByProjectAndStatus(ctx context.Context, projectID string, status domain.TaskStatus) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("ticketing.tasks").
		Where(squirrel.Eq{"project_id": projectID, "status": status, "is_deleted": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count tasks by status sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tasks by status: %w", err)
	}

	return count, nil
}

// CountByProjectAndStatusNot counts live project tasks excluding a status.
func (r *TaskRepository) CountByProjectAndStatusNot(ctx context.Context, projectID string, status domain.TaskStatus) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("ticketing.tasks").
		Where(squirrel.Eq{"project_id": projectID, "is_deleted": false}).
		Where(squirrel.NotEq{"status": status}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count tasks by status sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tasks by status: %w", err)
	}

	return count, nil
}

func (r *TaskRepository) queryTasks(ctx context.Context, stmt string, args []any) ([]domain.Task, error) {
	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.ProjectID,
			&task.AssignedEmployeeID,
			&task.Subject,
			&task.Detail,
			&task.Status,
			&task.AssignedDate,
			&task.IsDeleted,
		); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return tasks, nil
}
