package domain

import "time"

// UserRegisteredEvent is published after a pending user row is created.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Username     string
	Role         string
	RegisteredAt time.Time
}

// UserConfirmedEvent is published once a confirmation token is redeemed and
// the owner becomes enabled.
type UserConfirmedEvent struct {
	EventID     string
	UserID      string
	Username    string
	ConfirmedAt time.Time
}

// UserDeletedEvent is published after a user is tombstoned.
type UserDeletedEvent struct {
	EventID         string
	UserID          string
	MangledUsername string
	DeletedAt       time.Time
}

// ProjectDeletedEvent is published after a project is tombstoned. TasksFailed
// counts cascade deletions that could not be applied.
type ProjectDeletedEvent struct {
	EventID      string
	ProjectID    string
	MangledCode  string
	TasksDeleted int
	TasksFailed  int
	DeletedAt    time.Time
}

// TaskDeletedEvent is published after a task is soft deleted outside a cascade.
type TaskDeletedEvent struct {
	EventID   string
	TaskID    string
	ProjectID string
	DeletedAt time.Time
}
