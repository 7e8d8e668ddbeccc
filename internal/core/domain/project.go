package domain

// ProjectStatus enumerates project states. Exposed operations only move a
// project from OPEN to COMPLETE; there is no un-complete operation.
type ProjectStatus string

const (
	ProjectStatusOpen     ProjectStatus = "OPEN"
	ProjectStatusComplete ProjectStatus = "COMPLETE"
)

// Project mirrors the persisted representation in the projects table.
// ProjectCode is unique among live rows and is mangled on soft delete the
// same way usernames are.
type Project struct {
	ID                string
	ProjectCode       string
	ProjectName       string
	AssignedManagerID string
	Detail            string
	Status            ProjectStatus
	IsDeleted         bool
}

// MangledCode returns the tombstone code that frees the original project code
// for reuse after a soft delete.
func (p Project) MangledCode() string {
	return p.ProjectCode + "-" + p.ID
}

// ProjectDetails augments a project with task completion counters for the
// manager dashboard view.
type ProjectDetails struct {
	Project
	CompleteTaskCount   int
	IncompleteTaskCount int
}
