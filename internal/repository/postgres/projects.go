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

// ProjectRepository implements port.ProjectRepository using PostgreSQL.
type ProjectRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewProjectRepository wires a PostgreSQL-backed project repository.
func NewProjectRepository(exec pgExecutor) *ProjectRepository {
	repo := &ProjectRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *ProjectRepository) WithTx(tx pgx.Tx) *ProjectRepository {
	if tx == nil {
		return r
	}
	return &ProjectRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

var projectColumns = []string{
	"id",
	"project_code",
	"project_name",
	"assigned_manager_id",
	"detail",
	"status",
	"is_deleted",
}

func (r *ProjectRepository) selectProjects() squirrel.SelectBuilder {
	return r.builder.Select(projectColumns...).
		From("ticketing.projects").
		Where(squirrel.Eq{"is_deleted": false})
}

// Create inserts a new project row.
func (r *ProjectRepository) Create(ctx context.Context, project domain.Project) error {
	stmt, args, err := r.builder.Insert("ticketing.projects").
		Columns(projectColumns...).
		Values(
			project.ID,
			project.ProjectCode,
			project.ProjectName,
			project.AssignedManagerID,
			project.Detail,
			project.Status,
			project.IsDeleted,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert project sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	return nil
}

// GetByCode retrieves a live project by its code.
func (r *ProjectRepository) GetByCode(ctx context.Context, code string) (*domain.Project, error) {
	stmt, args, err := r.selectProjects().Where(squirrel.Eq{"project_code": code}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select project sql: %w", err)
	}

	return r.scanProject(r.exec.QueryRow(ctx, stmt, args...))
}

func (r *ProjectRepository) scanProject(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	if err := row.Scan(
		&project.ID,
		&project.ProjectCode,
		&project.ProjectName,
		&project.AssignedManagerID,
		&project.Detail,
		&project.Status,
		&project.IsDeleted,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	return &project, nil
}

// Update modifies an existing live project's fields.
func (r *ProjectRepository) Update(ctx context.Context, project domain.Project) error {
	stmt, args, err := r.builder.Update("ticketing.projects").
		Set("project_name", project.ProjectName).
		Set("assigned_manager_id", project.AssignedManagerID).
		Set("detail", project.Detail).
		Set("status", project.Status).
		Where(squirrel.Eq{"id": project.ID, "is_deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update project sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateStatus sets a live project's status.
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) error {
	stmt, args, err := r.builder.Update("ticketing.projects").
		Set("status", status).
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update project status sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update project status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Tombstone renames the project code and marks the row deleted in one
// statement, same race-safety contract as UserRepository.Tombstone.
func (r *ProjectRepository) Tombstone(ctx context.Context, id, mangledCode string) error {
	stmt, args, err := r.builder.Update("ticketing.projects").
		Set("project_code", mangledCode).
		Set("is_deleted", true).
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build tombstone project sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("tombstone project: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all live projects ordered by code.
func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	stmt, args, err := r.selectProjects().OrderBy("project_code ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list projects sql: %w", err)
	}

	return r.queryProjects(ctx, stmt, args)
}

// ListByManager returns live projects assigned to the given manager.
func (r *ProjectRepository) ListByManager(ctx context.Context, managerID string) ([]domain.Project, error) {
	stmt, args, err := r.selectProjects().
		Where(squirrel.Eq{"assigned_manager_id": managerID}).
		OrderBy("project_code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list projects by manager sql: %w", err)
	}

	return r.queryProjects(ctx, stmt, args)
}

// CountByManager counts live projects assigned to the given manager.
func (r *ProjectRepository) CountByManager(ctx context.Context, managerID string) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From("ticketing.projects").
		Where(squirrel.Eq{"assigned_manager_id": managerID, "is_deleted": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count projects sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}

	return count, nil
}

func (r *ProjectRepository) queryProjects(ctx context.Context, stmt string, args []any) ([]domain.Project, error) {
	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	projects := make([]domain.Project, 0)
	for rows.Next() {
		var project domain.Project
		if err := rows.Scan(
			&project.ID,
			&project.ProjectCode,
			&project.ProjectName,
			&project.AssignedManagerID,
			&project.Detail,
			&project.Status,
			&project.IsDeleted,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, nil
}
