package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
)

func newProjectServiceFixture(t *testing.T, projects *fakeProjectRepo, tasks *fakeTaskRepo, users *fakeUserRepo) (*ProjectService, *recordingPublisher) {
	t.Helper()
	publisher := &recordingPublisher{}
	svc := NewProjectService(projects, tasks, users, publisher, nil)
	return svc, publisher
}

func TestProjectCreateOpensProject(t *testing.T) {
	manager := newEnabledUser(t, "user-7", "lee@example.com", domain.RoleManager)
	projects := newFakeProjectRepo()
	svc, _ := newProjectServiceFixture(t, projects, newFakeTaskRepo(), newFakeUserRepo(manager))

	project, err := svc.Create(context.Background(), CreateProjectInput{
		ProjectCode:       "PR-001",
		ProjectName:       "Billing rewrite",
		AssignedManagerID: manager.ID,
		Detail:            "Replace the legacy billing pipeline.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if project.Status != domain.ProjectStatusOpen {
		t.Fatalf("status = %q, want OPEN", project.Status)
	}
	if project.AssignedManagerID != manager.ID {
		t.Fatalf("manager = %q, want %q", project.AssignedManagerID, manager.ID)
	}
}

func TestProjectCreateRejectsLiveDuplicateCode(t *testing.T) {
	manager := newEnabledUser(t, "user-7", "lee@example.com", domain.RoleManager)
	projects := newFakeProjectRepo(domain.Project{
		ID:                "proj-1",
		ProjectCode:       "PR-001",
		AssignedManagerID: manager.ID,
		Status:            domain.ProjectStatusOpen,
	})
	svc, _ := newProjectServiceFixture(t, projects, newFakeTaskRepo(), newFakeUserRepo(manager))

	_, err := svc.Create(context.Background(), CreateProjectInput{
		ProjectCode:       "PR-001",
		AssignedManagerID: manager.ID,
	})
	if !errors.Is(err, ErrProjectExists) {
		t.Fatalf("expected ErrProjectExists, got %v", err)
	}
}

func TestProjectCreateReusesTombstonedCode(t *testing.T) {
	manager := newEnabledUser(t, "user-7", "lee@example.com", domain.RoleManager)
	projects := newFakeProjectRepo()
	old := domain.Project{ID: "proj-1", ProjectCode: "PR-001", AssignedManagerID: manager.ID, Status: domain.ProjectStatusOpen}
	if err := projects.Create(context.Background(), old); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	if err := projects.Tombstone(context.Background(), old.ID, old.MangledCode()); err != nil {
		t.Fatalf("Tombstone: %v", err)
	}
	svc, _ := newProjectServiceFixture(t, projects, newFakeTaskRepo(), newFakeUserRepo(manager))

	if _, err := svc.Create(context.Background(), CreateProjectInput{
		ProjectCode:       "PR-001",
		AssignedManagerID: manager.ID,
	}); err != nil {
		t.Fatalf("expected tombstoned code to be reusable, got %v", err)
	}
}

func TestProjectCreateRejectsNonManager(t *testing.T) {
	employee := newEnabledUser(t, "user-2", "sam@example.com", domain.RoleEmployee)
	svc, _ := newProjectServiceFixture(t, newFakeProjectRepo(), newFakeTaskRepo(), newFakeUserRepo(employee))

	_, err := svc.Create(context.Background(), CreateProjectInput{
		ProjectCode:       "PR-001",
		AssignedManagerID: employee.ID,
	})
	if err == nil {
		t.Fatal("expected error assigning a non-manager")
	}
}

func TestProjectComplete(t *testing.T) {
	projects := newFakeProjectRepo(domain.Project{
		ID: "proj-1", ProjectCode: "PR-001", Status: domain.ProjectStatusOpen,
	})
	svc, _ := newProjectServiceFixture(t, projects, newFakeTaskRepo(), newFakeUserRepo())

	project, err := svc.Complete(context.Background(), "PR-001")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if project.Status != domain.ProjectStatusComplete {
		t.Fatalf("status = %q, want COMPLETE", project.Status)
	}
}

func TestProjectDeleteCascadesTasks(t *testing.T) {
	projects := newFakeProjectRepo(domain.Project{
		ID: "proj-1", ProjectCode: "PR-001", Status: domain.ProjectStatusOpen,
	})
	tasks := newFakeTaskRepo(
		domain.Task{ID: "task-1", ProjectID: "proj-1", Status: domain.TaskStatusOpen},
		domain.Task{ID: "task-2", ProjectID: "proj-1", Status: domain.TaskStatusInProgress},
		domain.Task{ID: "task-3", ProjectID: "proj-2", Status: domain.TaskStatusOpen},
	)
	svc, publisher := newProjectServiceFixture(t, projects, tasks, newFakeUserRepo())

	result, err := svc.Delete(context.Background(), "PR-001")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if result.TasksDeleted != 2 || result.TasksFailed != 0 {
		t.Fatalf("cascade counts = %d/%d, want 2/0", result.TasksDeleted, result.TasksFailed)
	}
	if !result.Project.IsDeleted {
		t.Fatal("expected project marked deleted")
	}
	if result.Project.ProjectCode != "PR-001-proj-1" {
		t.Fatalf("mangled code = %q", result.Project.ProjectCode)
	}

	// Task on the other project must survive.
	if _, err := tasks.GetByID(context.Background(), "task-3"); err != nil {
		t.Fatalf("unrelated task was deleted: %v", err)
	}
	if len(publisher.projectDel) != 1 {
		t.Fatalf("expected 1 project deleted event, got %d", len(publisher.projectDel))
	}
	if publisher.projectDel[0].TasksDeleted != 2 {
		t.Fatalf("event tasks_deleted = %d, want 2", publisher.projectDel[0].TasksDeleted)
	}
}

func TestProjectDeleteSurvivesFailingTask(t *testing.T) {
	projects := newFakeProjectRepo(domain.Project{
		ID: "proj-1", ProjectCode: "PR-001", Status: domain.ProjectStatusOpen,
	})
	tasks := newFakeTaskRepo(
		domain.Task{ID: "task-1", ProjectID: "proj-1", Status: domain.TaskStatusOpen},
		domain.Task{ID: "task-2", ProjectID: "proj-1", Status: domain.TaskStatusOpen},
	)
	tasks.softDeleteErr = map[string]error{"task-1": errors.New("storage hiccup")}
	svc, publisher := newProjectServiceFixture(t, projects, tasks, newFakeUserRepo())

	result, err := svc.Delete(context.Background(), "PR-001")
	if err != nil {
		t.Fatalf("Delete must not abort on a failing task: %v", err)
	}
	if result.TasksDeleted != 1 || result.TasksFailed != 1 {
		t.Fatalf("cascade counts = %d/%d, want 1/1", result.TasksDeleted, result.TasksFailed)
	}
	if len(publisher.projectDel) != 1 {
		t.Fatalf("expected 1 project deleted event, got %d", len(publisher.projectDel))
	}
	if publisher.projectDel[0].TasksFailed != 1 {
		t.Fatalf("event tasks_failed = %d, want 1", publisher.projectDel[0].TasksFailed)
	}
}

func TestProjectDeleteUnknownCode(t *testing.T) {
	svc, _ := newProjectServiceFixture(t, newFakeProjectRepo(), newFakeTaskRepo(), newFakeUserRepo())

	if _, err := svc.Delete(context.Background(), "PR-404"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestProjectListDetailsCountsTasks(t *testing.T) {
	projects := newFakeProjectRepo(
		domain.Project{ID: "proj-1", ProjectCode: "PR-001", AssignedManagerID: "user-7", Status: domain.ProjectStatusOpen},
		domain.Project{ID: "proj-2", ProjectCode: "PR-002", AssignedManagerID: "user-8", Status: domain.ProjectStatusOpen},
	)
	tasks := newFakeTaskRepo(
		domain.Task{ID: "task-1", ProjectID: "proj-1", Status: domain.TaskStatusComplete},
		domain.Task{ID: "task-2", ProjectID: "proj-1", Status: domain.TaskStatusOpen},
		domain.Task{ID: "task-3", ProjectID: "proj-1", Status: domain.TaskStatusInProgress},
		domain.Task{ID: "task-4", ProjectID: "proj-2", Status: domain.TaskStatusOpen},
	)
	svc, _ := newProjectServiceFixture(t, projects, tasks, newFakeUserRepo())

	details, err := svc.ListDetails(context.Background(), "user-7")
	if err != nil {
		t.Fatalf("ListDetails: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected 1 project for manager, got %d", len(details))
	}
	if details[0].CompleteTaskCount != 1 {
		t.Fatalf("complete count = %d, want 1", details[0].CompleteTaskCount)
	}
	if details[0].IncompleteTaskCount != 2 {
		t.Fatalf("incomplete count = %d, want 2", details[0].IncompleteTaskCount)
	}
}
