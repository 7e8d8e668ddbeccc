package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/usecase"
)

// ProjectHandler exposes project lifecycle endpoints.
type ProjectHandler struct {
	projects *usecase.ProjectService
}

// NewProjectHandler constructs ProjectHandler.
func NewProjectHandler(projects *usecase.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// List returns all live projects.
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "projects", newProjectPayloads(projects))
}

// Get returns a live project by code.
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projects.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "project", newProjectPayload(*project))
}

// Create provisions a new open project.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projects.Create(c.Request.Context(), usecase.CreateProjectInput{
		ProjectCode:       req.ProjectCode,
		ProjectName:       req.ProjectName,
		AssignedManagerID: req.AssignedManagerID,
		Detail:            req.Detail,
	})
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusCreated, "project created", newProjectPayload(*project))
}

// Update modifies a live project addressed by code in the body.
func (h *ProjectHandler) Update(c *gin.Context) {
	var req UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projects.Update(c.Request.Context(), usecase.UpdateProjectInput{
		ProjectCode:       req.ProjectCode,
		ProjectName:       req.ProjectName,
		AssignedManagerID: req.AssignedManagerID,
		Detail:            req.Detail,
	})
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "project updated", newProjectPayload(*project))
}

// Complete moves a live project to COMPLETE.
func (h *ProjectHandler) Complete(c *gin.Context) {
	project, err := h.projects.Complete(c.Request.Context(), c.Param("code"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "project completed", newProjectPayload(*project))
}

// Delete tombstones a live project and cascades over its tasks. Failed task
// deletions are reported in the payload, never as a request failure.
func (h *ProjectHandler) Delete(c *gin.Context) {
	result, err := h.projects.Delete(c.Request.Context(), c.Param("code"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "project deleted", ProjectDeletePayload{
		Project:      newProjectPayload(result.Project),
		TasksDeleted: result.TasksDeleted,
		TasksFailed:  result.TasksFailed,
	})
}

// Details returns the calling manager's live projects with task counters.
func (h *ProjectHandler) Details(c *gin.Context) {
	sctx, ok := domain.SecurityContextFrom(c.Request.Context())
	if !ok {
		RespondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	details, err := h.projects.ListDetails(c.Request.Context(), sctx.SubjectID)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	payloads := make([]ProjectDetailsPayload, 0, len(details))
	for _, d := range details {
		payloads = append(payloads, ProjectDetailsPayload{
			ProjectPayload:      newProjectPayload(d.Project),
			CompleteTaskCount:   d.CompleteTaskCount,
			IncompleteTaskCount: d.IncompleteTaskCount,
		})
	}

	Respond(c, http.StatusOK, "project details", payloads)
}
