package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"studio-api/models"
	"studio-api/services"
)

// CurrentUserKey is the context key the authenticated user is attached under.
const CurrentUserKey = "currentUser"

// Auth validates the bearer token and re-fetches the user from the store.
// The re-fetch is what makes deactivation take effect immediately even though
// tokens are stateless: a valid token for a missing or inactive account is
// rejected here.
func Auth(store *services.UserStore, tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authentication token required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Malformed authorization header")
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			if errors.Is(err, services.ErrTokenExpired) {
				abortUnauthorized(c, "Token has expired, please log in again")
			} else {
				abortUnauthorized(c, "Invalid authentication token")
			}
			return
		}

		user, err := store.FindByID(claims.UserID)
		if err != nil || !user.IsActive {
			abortUnauthorized(c, "User not found or inactive")
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// RequireRole permits the request only when the authenticated user's role is
// in the allowed set. Must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortUnauthorized(c, "User not authenticated")
			return
		}

		if !allowed[user.Role] {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "You do not have permission to access this resource",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by Auth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
	c.Abort()
}
