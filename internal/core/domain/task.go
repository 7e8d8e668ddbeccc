package domain

import "time"

// TaskStatus enumerates task states. The employee status-update path accepts
// the caller-supplied value as given; no transition graph is enforced beyond
// existence checks.
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "OPEN"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusComplete   TaskStatus = "COMPLETE"
)

// Task mirrors the persisted representation in the tasks table. Every live
// task references a live project; deleting a project retires its tasks first.
type Task struct {
	ID                 string
	ProjectID          string
	AssignedEmployeeID string
	Subject            string
	Detail             string
	Status             TaskStatus
	AssignedDate       time.Time
	IsDeleted          bool
}
