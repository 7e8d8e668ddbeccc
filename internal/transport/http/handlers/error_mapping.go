package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/usecase"
)

// ErrorCase maps a sentinel error to an HTTP status code and response message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// commonErrorCases covers the sentinel errors shared across domain handlers.
var commonErrorCases = []ErrorCase{
	{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid credentials"},
	{Err: usecase.ErrUserNotConfirmed, Status: http.StatusUnauthorized, Message: "account pending confirmation"},
	{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "access denied"},
	{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
	{Err: usecase.ErrProjectNotFound, Status: http.StatusNotFound, Message: "project not found"},
	{Err: usecase.ErrTaskNotFound, Status: http.StatusNotFound, Message: "task not found"},
	{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "role not found"},
	{Err: usecase.ErrTokenNotFound, Status: http.StatusNotFound, Message: "confirmation token not found"},
	{Err: usecase.ErrUserExists, Status: http.StatusConflict, Message: "username already taken"},
	{Err: usecase.ErrProjectExists, Status: http.StatusConflict, Message: "project code already taken"},
	{Err: usecase.ErrUserLinked, Status: http.StatusConflict, Message: "user is linked by a project or a task"},
	{Err: usecase.ErrTokenExpired, Status: http.StatusConflict, Message: "confirmation token expired"},
	{Err: usecase.ErrPasswordPolicyViolation, Status: http.StatusBadRequest, Message: "password does not meet complexity requirements"},
}

// RespondWithMappedError resolves the provided error against known cases or
// falls back to a generic 500 envelope.
func RespondWithMappedError(c *gin.Context, err error, extraCases ...ErrorCase) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	for _, cs := range extraCases {
		if cs.Err != nil && errors.Is(err, cs.Err) {
			RespondError(c, cs.Status, cs.Message)
			return
		}
	}

	for _, cs := range commonErrorCases {
		if errors.Is(err, cs.Err) {
			RespondError(c, cs.Status, cs.Message)
			return
		}
	}

	RespondError(c, http.StatusInternalServerError, "internal server error")
}
