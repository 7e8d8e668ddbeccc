package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/repository"
)

func TestProjectRepository_GetByCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewProjectRepository(mock)

	rows := pgxmock.NewRows([]string{
		"id", "project_code", "project_name", "assigned_manager_id", "detail", "status", "is_deleted",
	}).AddRow(
		"proj-1", "PR-001", "Billing Portal", "user-7", "Rework of invoicing", domain.ProjectStatusOpen, false,
	)

	mock.ExpectQuery(`SELECT .*FROM ticketing\.projects`).WithArgs(false, "PR-001").WillReturnRows(rows)

	project, err := repo.GetByCode(context.Background(), "PR-001")
	if err != nil {
		t.Fatalf("GetByCode returned error: %v", err)
	}
	if project.ProjectCode != "PR-001" {
		t.Fatalf("expected code PR-001, got %s", project.ProjectCode)
	}
	if project.AssignedManagerID != "user-7" {
		t.Fatalf("expected manager user-7, got %s", project.AssignedManagerID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProjectRepository_Tombstone_AlreadyDeleted(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewProjectRepository(mock)

	mock.ExpectExec(`UPDATE ticketing\.projects`).
		WithArgs("PR-001-proj-1", true, "proj-1", false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.Tombstone(context.Background(), "proj-1", "PR-001-proj-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProjectRepository_CountByManager(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewProjectRepository(mock)

	rows := pgxmock.NewRows([]string{"count"}).AddRow(3)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM ticketing\.projects`).
		WithArgs("user-7", false).
		WillReturnRows(rows)

	count, err := repo.CountByManager(context.Background(), "user-7")
	if err != nil {
		t.Fatalf("CountByManager returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
