package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/usecase"
)

// TaskHandler exposes task lifecycle endpoints.
type TaskHandler struct {
	tasks *usecase.TaskService
}

// NewTaskHandler constructs TaskHandler.
func NewTaskHandler(tasks *usecase.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List returns all live tasks.
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.tasks.List(c.Request.Context())
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "tasks", newTaskPayloads(tasks))
}

// Get returns a live task by id.
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.tasks.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "task", newTaskPayload(*task))
}

// Create provisions a new open task on a live project. Status and assignment
// date are server-assigned regardless of the request body.
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), usecase.CreateTaskInput{
		ProjectCode:        req.ProjectCode,
		AssignedEmployeeID: req.AssignedEmployeeID,
		Subject:            req.Subject,
		Detail:             req.Detail,
	})
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusCreated, "task created", newTaskPayload(*task))
}

// Update modifies a live task addressed by id in the body.
func (h *TaskHandler) Update(c *gin.Context) {
	var req UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), usecase.UpdateTaskInput{
		ID:                 req.ID,
		AssignedEmployeeID: req.AssignedEmployeeID,
		Subject:            req.Subject,
		Detail:             req.Detail,
		Status:             domain.TaskStatus(req.Status),
	})
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "task updated", newTaskPayload(*task))
}

// UpdateStatus sets a live task's status. Any target status is accepted.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	var req UpdateTaskStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.UpdateStatus(c.Request.Context(), req.ID, domain.TaskStatus(req.Status))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "task status updated", newTaskPayload(*task))
}

// Delete soft-deletes a live task.
func (h *TaskHandler) Delete(c *gin.Context) {
	task, err := h.tasks.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "task deleted", newTaskPayload(*task))
}

// ListPending returns the calling employee's live tasks that are not complete.
func (h *TaskHandler) ListPending(c *gin.Context) {
	sctx, ok := domain.SecurityContextFrom(c.Request.Context())
	if !ok {
		RespondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	tasks, err := h.tasks.ListPendingByEmployee(c.Request.Context(), sctx.SubjectID)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "pending tasks", newTaskPayloads(tasks))
}

// ListManaged returns live tasks across the calling manager's live projects.
func (h *TaskHandler) ListManaged(c *gin.Context) {
	sctx, ok := domain.SecurityContextFrom(c.Request.Context())
	if !ok {
		RespondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	tasks, err := h.tasks.ListByProjectManager(c.Request.Context(), sctx.SubjectID)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "managed tasks", newTaskPayloads(tasks))
}
