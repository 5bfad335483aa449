package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swasthsathi/telehealth-service/internal/auth"
	"github.com/swasthsathi/telehealth-service/internal/models"
)

const identityContextKey = "identity"

// SessionAuthMiddleware authenticates requests from the session cookie.
type SessionAuthMiddleware struct {
	sessions *auth.SessionManager
}

func NewSessionAuthMiddleware(sessions *auth.SessionManager) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{sessions: sessions}
}

// AuthMiddleware resolves the session cookie and puts the caller's identity
// in the request context. Browser clients are redirected to the login page,
// API clients get 401 JSON.
func (sam *SessionAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CookieName)
		if err != nil || token == "" {
			rejectUnauthenticated(c, "authentication required")
			return
		}

		identity, err := sam.sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			rejectUnauthenticated(c, "session expired or invalid")
			return
		}

		c.Set(identityContextKey, *identity)
		c.Set("user_id", identity.UserID)
		c.Set("user_role", identity.Role)
		c.Next()
	}
}

// RequireRoleMiddleware gates a route group to the given roles. Admins pass
// every gate. Browser clients are redirected home, API clients get 403 JSON.
func (sam *SessionAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := GetIdentityFromContext(c)
		if err != nil {
			rejectUnauthenticated(c, "authentication required")
			return
		}

		hasRequiredRole := false
		for _, requiredRole := range requiredRoles {
			if identity.Role == requiredRole || identity.Role == models.RoleAdmin {
				hasRequiredRole = true
				break
			}
		}

		if !hasRequiredRole {
			if wantsHTML(c) {
				c.Redirect(http.StatusFound, "/?notice=forbidden")
				c.Abort()
				return
			}
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: fmt.Sprintf("insufficient permissions, required role: %v", requiredRoles),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func rejectUnauthenticated(c *gin.Context, message string) {
	if wantsHTML(c) {
		c.Redirect(http.StatusFound, "/login?notice=login_required")
		c.Abort()
		return
	}
	c.JSON(http.StatusUnauthorized, ErrorResponse{Message: message})
	c.Abort()
}

// wantsHTML reports whether the client is a browser navigation rather than
// an API call.
func wantsHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html")
}

// GetIdentityFromContext extracts the authenticated identity from the Gin
// context.
func GetIdentityFromContext(c *gin.Context) (auth.Identity, error) {
	value, exists := c.Get(identityContextKey)
	if !exists {
		return auth.Identity{}, fmt.Errorf("identity not found in context")
	}

	identity, ok := value.(auth.Identity)
	if !ok {
		return auth.Identity{}, fmt.Errorf("invalid identity type in context")
	}
	return identity, nil
}

// mustIdentity returns the caller's identity or responds 401 and reports
// false.
func mustIdentity(c *gin.Context) (auth.Identity, bool) {
	identity, err := GetIdentityFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "User not authenticated",
		})
		return auth.Identity{}, false
	}
	return identity, true
}
