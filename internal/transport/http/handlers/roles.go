package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/usecase"
)

// RoleHandler exposes the seeded role catalogue.
type RoleHandler struct {
	roles *usecase.RoleService
}

// NewRoleHandler constructs RoleHandler.
func NewRoleHandler(roles *usecase.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// List returns all roles.
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roles.List(c.Request.Context())
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	payloads := make([]RolePayload, 0, len(roles))
	for _, role := range roles {
		payloads = append(payloads, newRolePayload(role))
	}

	Respond(c, http.StatusOK, "roles", payloads)
}
