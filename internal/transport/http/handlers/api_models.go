package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
)

// ResponseWrapper is the uniform envelope returned by every endpoint,
// success and failure alike.
type ResponseWrapper struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Respond writes a success envelope.
func Respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, ResponseWrapper{
		Success: true,
		Code:    status,
		Message: message,
		Data:    data,
	})
}

// RespondError writes a failure envelope.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, ResponseWrapper{
		Success: false,
		Code:    status,
		Message: message,
	})
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserPayload is the API view of a user. The password hash never leaves the
// service boundary.
type UserPayload struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username"`
	Phone     string `json:"phone,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Enabled   bool   `json:"enabled"`
	Role      string `json:"role,omitempty"`
}

// AuthenticateRequest defines the credential exchange payload.
type AuthenticateRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthenticateResponse carries the issued bearer token.
type AuthenticateResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

// CreateUserRequest defines the registration payload. Username doubles as the
// contact email address.
type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Phone     string `json:"phone"`
	Gender    string `json:"gender"`
	Role      string `json:"role"`
}

// UpdateUserRequest defines the partial user update payload. The target is
// addressed by username; blank fields keep their current values.
type UpdateUserRequest struct {
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Gender    string `json:"gender"`
	Role      string `json:"role"`
}

// RolePayload summarizes a role entity.
type RolePayload struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// ProjectPayload is the API view of a project.
type ProjectPayload struct {
	ID                string `json:"id"`
	ProjectCode       string `json:"project_code"`
	ProjectName       string `json:"project_name,omitempty"`
	AssignedManagerID string `json:"assigned_manager_id,omitempty"`
	Detail            string `json:"detail,omitempty"`
	Status            string `json:"status"`
}

// ProjectDetailsPayload augments a project with task completion counters.
type ProjectDetailsPayload struct {
	ProjectPayload
	CompleteTaskCount   int `json:"complete_task_count"`
	IncompleteTaskCount int `json:"incomplete_task_count"`
}

// ProjectDeletePayload reports a cascading project deletion outcome.
type ProjectDeletePayload struct {
	Project      ProjectPayload `json:"project"`
	TasksDeleted int            `json:"tasks_deleted"`
	TasksFailed  int            `json:"tasks_failed"`
}

// CreateProjectRequest defines the project creation payload.
type CreateProjectRequest struct {
	ProjectCode       string `json:"project_code" binding:"required"`
	ProjectName       string `json:"project_name"`
	AssignedManagerID string `json:"assigned_manager_id" binding:"required"`
	Detail            string `json:"detail"`
}

// UpdateProjectRequest defines the partial project update payload, addressed
// by project code.
type UpdateProjectRequest struct {
	ProjectCode       string `json:"project_code" binding:"required"`
	ProjectName       string `json:"project_name"`
	AssignedManagerID string `json:"assigned_manager_id"`
	Detail            string `json:"detail"`
}

// TaskPayload is the API view of a task.
type TaskPayload struct {
	ID                 string    `json:"id"`
	ProjectID          string    `json:"project_id"`
	AssignedEmployeeID string    `json:"assigned_employee_id,omitempty"`
	Subject            string    `json:"subject,omitempty"`
	Detail             string    `json:"detail,omitempty"`
	Status             string    `json:"status"`
	AssignedDate       time.Time `json:"assigned_date"`
}

// CreateTaskRequest defines the task creation payload. Status and assignment
// date are server-assigned.
type CreateTaskRequest struct {
	ProjectCode        string `json:"project_code" binding:"required"`
	AssignedEmployeeID string `json:"assigned_employee_id"`
	Subject            string `json:"subject" binding:"required"`
	Detail             string `json:"detail"`
}

// UpdateTaskRequest defines the partial task update payload.
type UpdateTaskRequest struct {
	ID                 string `json:"id" binding:"required"`
	AssignedEmployeeID string `json:"assigned_employee_id"`
	Subject            string `json:"subject"`
	Detail             string `json:"detail"`
	Status             string `json:"status"`
}

// UpdateTaskStatusRequest defines the employee status-update payload.
type UpdateTaskStatusRequest struct {
	ID     string `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func newUserPayload(user domain.User) UserPayload {
	payload := UserPayload{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Gender:    string(user.Gender),
		Enabled:   user.Enabled,
		Role:      user.Role.Description,
	}

	if user.Phone != nil {
		if phone := strings.TrimSpace(*user.Phone); phone != "" {
			payload.Phone = phone
		}
	}

	return payload
}

func newUserPayloads(users []domain.User) []UserPayload {
	payloads := make([]UserPayload, 0, len(users))
	for _, user := range users {
		payloads = append(payloads, newUserPayload(user))
	}
	return payloads
}

func newRolePayload(role domain.Role) RolePayload {
	return RolePayload{ID: role.ID, Description: role.Description}
}

func newProjectPayload(project domain.Project) ProjectPayload {
	return ProjectPayload{
		ID:                project.ID,
		ProjectCode:       project.ProjectCode,
		ProjectName:       project.ProjectName,
		AssignedManagerID: project.AssignedManagerID,
		Detail:            project.Detail,
		Status:            string(project.Status),
	}
}

func newProjectPayloads(projects []domain.Project) []ProjectPayload {
	payloads := make([]ProjectPayload, 0, len(projects))
	for _, project := range projects {
		payloads = append(payloads, newProjectPayload(project))
	}
	return payloads
}

func newTaskPayload(task domain.Task) TaskPayload {
	return TaskPayload{
		ID:                 task.ID,
		ProjectID:          task.ProjectID,
		AssignedEmployeeID: task.AssignedEmployeeID,
		Subject:            task.Subject,
		Detail:             task.Detail,
		Status:             string(task.Status),
		AssignedDate:       task.AssignedDate,
	}
}

func newTaskPayloads(tasks []domain.Task) []TaskPayload {
	payloads := make([]TaskPayload, 0, len(tasks))
	for _, task := range tasks {
		payloads = append(payloads, newTaskPayload(task))
	}
	return payloads
}

// bindJSON wraps ShouldBindJSON with the uniform envelope on failure.
func bindJSON(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}
