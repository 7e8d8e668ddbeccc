package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/repository"
)

func TestTokenRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewTokenRepository(mock)

	issued := time.Now().UTC().Truncate(24 * time.Hour)
	token := domain.ConfirmationToken{
		ID:        "token-1",
		Token:     "opaque-value",
		UserID:    "user-1",
		IssuedAt:  issued,
		ExpiresAt: issued.AddDate(0, 0, 1),
	}

	mock.ExpectExec(`INSERT INTO ticketing\.confirmation_tokens`).
		WithArgs(token.ID, token.Token, token.UserID, token.IssuedAt, token.ExpiresAt, token.IsDeleted).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), token); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepository_GetByToken_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewTokenRepository(mock)

	rows := pgxmock.NewRows([]string{"id", "token", "user_id", "issued_at", "expires_at", "is_deleted"})

	mock.ExpectQuery(`SELECT .*FROM ticketing\.confirmation_tokens`).
		WithArgs(false, "missing").
		WillReturnRows(rows)

	if _, err := repo.GetByToken(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepository_Consume(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewTokenRepository(mock)

	mock.ExpectExec(`UPDATE ticketing\.confirmation_tokens`).
		WithArgs(true, "token-1", false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.Consume(context.Background(), "token-1"); err != nil {
		t.Fatalf("Consume returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTokenRepository_Consume_AlreadyConsumed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewTokenRepository(mock)

	mock.ExpectExec(`UPDATE ticketing\.confirmation_tokens`).
		WithArgs(true, "token-1", false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.Consume(context.Background(), "token-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
