package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/usecase"
)

// AuthHandler exposes the credential exchange and confirmation endpoints.
type AuthHandler struct {
	auth          *usecase.AuthService
	confirmations *usecase.ConfirmationService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, confirmations *usecase.ConfirmationService) *AuthHandler {
	return &AuthHandler{auth: auth, confirmations: confirmations}
}

// Authenticate exchanges a username and password for a signed bearer token.
// Unknown usernames and wrong passwords produce the same response.
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req AuthenticateRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "authenticated", AuthenticateResponse{
		Token:     token,
		TokenType: "Bearer",
	})
}

// Confirm redeems a confirmation token from the emailed link and enables the
// pending account.
func (h *AuthHandler) Confirm(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		RespondError(c, http.StatusBadRequest, "token query parameter is required")
		return
	}

	user, err := h.confirmations.Redeem(c.Request.Context(), token)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	Respond(c, http.StatusOK, "account confirmed", newUserPayload(user))
}
