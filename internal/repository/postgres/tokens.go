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

// TokenRepository implements confirmation token persistence backed by PostgreSQL.
type TokenRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTokenRepository constructs a PostgreSQL-backed token repository.
func NewTokenRepository(exec pgExecutor) *TokenRepository {
	repo := &TokenRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *TokenRepository) WithTx(tx pgx.Tx) *TokenRepository {
	if tx == nil {
		return r
	}
	return &TokenRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new confirmation token row.
func (r *TokenRepository) Create(ctx context.Context, token domain.ConfirmationToken) error {
	stmt, args, err := r.builder.Insert("ticketing.confirmation_tokens").
		Columns("id", "token", "user_id", "issued_at", "expires_at", "is_deleted").
		Values(token.ID, token.Token, token.UserID, token.IssuedAt, token.ExpiresAt, token.IsDeleted).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert token sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert token: %w", err)
	}

	return nil
}

// GetByToken retrieves a live confirmation token by its opaque value.
func (r *TokenRepository) GetByToken(ctx context.Context, value string) (*domain.ConfirmationToken, error) {
	stmt, args, err := r.builder.Select("id", "token", "user_id", "issued_at", "expires_at", "is_deleted").
		From("ticketing.confirmation_tokens").
		Where(squirrel.Eq{"token": value, "is_deleted": false}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select token sql: %w", err)
	}

	var token domain.ConfirmationToken
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&token.ID,
		&token.Token,
		&token.UserID,
		&token.IssuedAt,
		&token.ExpiresAt,
		&token.IsDeleted,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan token: %w", err)
	}

	return &token, nil
}

// Consume retires a live token. The is_deleted guard makes redemption
// single-use: a second concurrent consume affects zero rows and reports
// ErrNotFound.
func (r *TokenRepository) Consume(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("ticketing.confirmation_tokens").
		Set("is_deleted", true).
		Where(squirrel.Eq{"id": id, "is_deleted": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build consume token sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("consume token: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
