package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/repository"
)

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a PostgreSQL-backed user repository.
func NewUserRepository(exec pgExecutor) *UserRepository {
	repo := &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

var userColumns = []string{
	"u.id",
	"u.first_name",
	"u.last_name",
	"u.username",
	"u.password_hash",
	"u.phone",
	"u.gender",
	"u.enabled",
	"u.is_deleted",
	"r.id",
	"r.description",
}

func (r *UserRepository) selectUsers() squirrel.SelectBuilder {
	return r.builder.Select(userColumns...).
		From("ticketing.users u").
		Join("ticketing.roles r ON r.id = u.role_id").
		Where(squirrel.Eq{"u.is_deleted": false})
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	var phoneValue any
	if user.Phone != nil && *user.Phone != "" {
		phoneValue = *user.Phone
	}

	stmt, args, err := r.builder.Insert("ticketing.users").
		Columns(
			"id",
			"first_name",
			"last_name",
			"username",
			"password_hash",
			"phone",
			"gender",
			"enabled",
			"role_id",
			"is_deleted",
		).
		Values(
			user.ID,
			user.FirstName,
			user.LastName,
			user.Username,
			user.PasswordHash,
			phoneValue,
			user.Gender,
			user.Enabled,
			user.Role.ID,
			user.IsDeleted,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a live user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stmt, args, err := r.selectUsers().Where(squirrel.Eq{"u.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByUsername retrieves a live user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	stmt, args, err := r.selectUsers().Where(squirrel.Eq{"u.username": username}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by username sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user  domain.User
		phone sql.NullString
	)

	if err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.PasswordHash,
		&phone,
		&user.Gender,
		&user.Enabled,
		&user.IsDeleted,
		&user.Role.ID,
		&user.Role.Description,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if phone.Valid {
		val := phone.String
		user.Phone = &val
	}

	return &user, nil
}

// Update modifies an existing live user's fields.
func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	var phoneValue any
	if user.Phone != nil && *user.Phone != "" {
		phoneValue = *user.Phone
	}

	stmt, args, err := r.builder.Update("ticketing.users").
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("password_hash", user.PasswordHash).
		Set("phone", phoneValue).
		Set("gender", user.Gender).
		Set("enabled", user.Enabled).
		Set("role_id", user.Role.ID).
		Where(squirrel.Eq{"id": user.ID, "is_deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SetEnabled flips a live user's enablement flag.
func (r *UserRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	stmt, args, err := r.builder.Update("ticketing.users").
		Set("enabled", enabled).
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build enable user sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("enable user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Tombstone renames the username and marks the row deleted in one statement.
// The is_deleted guard means a concurrent second delete affects zero rows and
// reports ErrNotFound, and a concurrent lookup by the original name can never
// observe a renamed-but-live intermediate state.
func (r *UserRepository) Tombstone(ctx context.Context, id, mangledUsername string) error {
	stmt, args, err := r.builder.Update("ticketing.users").
		Set("username", mangledUsername).
		Set("is_deleted", true).
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build tombstone user sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("tombstone user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns all live users ordered by first name.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	stmt, args, err := r.selectUsers().OrderBy("u.first_name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users sql: %w", err)
	}

	return r.queryUsers(ctx, stmt, args)
}

// ListByRole returns live users whose role description matches, case-insensitively.
func (r *UserRepository) ListByRole(ctx context.Context, roleDescription string) ([]domain.User, error) {
	stmt, args, err := r.selectUsers().
		Where(squirrel.Expr("LOWER(r.description) = LOWER(?)", roleDescription)).
		OrderBy("u.first_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users by role sql: %w", err)
	}

	return r.queryUsers(ctx, stmt, args)
}

func (r *UserRepository) queryUsers(ctx context.Context, stmt string, args []any) ([]domain.User, error) {
	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var (
			user  domain.User
			phone sql.NullString
		)

		if err := rows.Scan(
			&user.ID,
			&user.FirstName,
			&user.LastName,
			&user.Username,
			&user.PasswordHash,
			&phone,
			&user.Gender,
			&user.Enabled,
			&user.IsDeleted,
			&user.Role.ID,
			&user.Role.Description,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}

		if phone.Valid {
			val := phone.String
			user.Phone = &val
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}
