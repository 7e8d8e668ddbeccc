package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/usecase"
)

const confirmationDispatchTimeout = 30 * time.Second

// UserHandler exposes user lifecycle endpoints.
type UserHandler struct {
	users      *usecase.UserService
	dispatcher NotificationDispatcher
	log        *zap.Logger
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users *usecase.UserService, dispatcher NotificationDispatcher, log *zap.Logger) *UserHandler {
	if dispatcher == nil {
		dispatcher = noopDispatcher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &UserHandler{users: users, dispatcher: dispatcher, log: log}
}

// Create registers a new disabled user and emails its confirmation link. The
// email goes out on a background goroutine so delivery latency never holds up
// the response.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.users.Register(c.Request.Context(), usecase.RegisterUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Password:  req.Password,
		Phone:     req.Phone,
		Gender:    domain.Gender(req.Gender),
		Role:      req.Role,
	})
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	go func(payload ConfirmationNotification) {
		ctx, cancel := context.WithTimeout(context.Background(), confirmationDispatchTimeout)
		defer cancel()
		if err := h.dispatcher.SendConfirmation(ctx, payload); err != nil {
			h.log.Warn("confirmation dispatch failed", zap.Error(err))
		}
	}(ConfirmationNotification{
		Recipient: result.User.Username,
		Token:     result.Token.Token,
	})

	Respond(c, http.StatusCreated, "user created, confirmation pending", newUserPayload(result.User))
}

// List returns all live users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "users", newUserPayloads(users))
}

// ListByRole returns live users holding the role named in the query.
func (h *UserHandler) ListByRole(c *gin.Context) {
	role := c.Query("role")
	if role == "" {
		RespondError(c, http.StatusBadRequest, "role query parameter is required")
		return
	}

	users, err := h.users.ListByRole(c.Request.Context(), role)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "users", newUserPayloads(users))
}

// Get returns a single live user. The service enforces the self-or-admin rule
// against the caller's security context.
func (h *UserHandler) Get(c *gin.Context) {
	sctx, _ := domain.SecurityContextFrom(c.Request.Context())

	user, err := h.users.GetByUsername(c.Request.Context(), sctx, c.Param("username"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "user", newUserPayload(*user))
}

// Update modifies an enabled user addressed by username in the body.
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.Update(c.Request.Context(), usecase.UpdateUserInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Phone:     req.Phone,
		Gender:    domain.Gender(req.Gender),
		Role:      req.Role,
	})
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "user updated", newUserPayload(*user))
}

// Delete tombstones a live user unless live projects or tasks still reference it.
func (h *UserHandler) Delete(c *gin.Context) {
	user, err := h.users.Delete(c.Request.Context(), c.Param("username"))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "user deleted", newUserPayload(*user))
}
