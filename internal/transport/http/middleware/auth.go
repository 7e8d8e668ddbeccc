package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/usecase"
)

// gateResponse mirrors the handlers envelope so middleware rejections look the
// same as handler responses on the wire.
type gateResponse struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func newGateResponse(code int, message string) gateResponse {
	return gateResponse{Success: false, Code: code, Message: message}
}

// AuthenticationGate resolves the Authorization header into a SecurityContext
// on the request context. It never aborts: a missing, malformed, or invalid
// credential leaves the request anonymous and lets the route policy decide.
func AuthenticationGate(authService *usecase.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Idempotent: an upstream gate already identified the caller.
		if _, ok := domain.SecurityContextFrom(c.Request.Context()); ok {
			c.Next()
			return
		}

		raw := extractBearer(c.GetHeader("Authorization"))
		if raw == "" {
			c.Next()
			return
		}

		sctx, err := authService.Identify(c.Request.Context(), raw)
		if err != nil {
			// Invalid credentials demote to anonymous rather than reject.
			c.Next()
			return
		}

		ctx := domain.WithSecurityContext(c.Request.Context(), sctx)
		c.Request = c.Request.WithContext(ctx)
		ScopeFrom(c).SubjectID = sctx.SubjectID

		c.Next()
	}
}

// extractBearer pulls the credential out of an Authorization header value.
// The scheme comparison is case-insensitive.
func extractBearer(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// RequireRole rejects requests whose security context does not carry one of
// the listed roles. Anonymous requests get 401, authenticated requests with
// the wrong role get 403.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sctx, ok := domain.SecurityContextFrom(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newGateResponse(http.StatusUnauthorized, "authentication required"))
			return
		}

		for _, role := range roles {
			if sctx.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden,
			newGateResponse(http.StatusForbidden, "access denied"))
	}
}

// RequireAuthenticated rejects anonymous requests without constraining role.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := domain.SecurityContextFrom(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newGateResponse(http.StatusUnauthorized, "authentication required"))
			return
		}
		c.Next()
	}
}
