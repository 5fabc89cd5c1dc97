package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studio-api/middleware"
	"studio-api/services"
)

type AuthHandler struct {
	store  *services.UserStore
	tokens *services.TokenService
}

func NewAuthHandler(store *services.UserStore, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,strongpassword"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new account and logs it in right away.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	user, err := h.store.Create(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "A user with this email is already registered",
			})
			return
		}
		internalError(c, "Failed to create user", err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(user)
	if err != nil {
		internalError(c, "Failed to generate token", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"data": gin.H{
			"token":      token,
			"expires_at": expiresAt,
			"user":       user.Public(),
		},
	})
}

// Login checks credentials and issues a token. Unknown email and wrong
// password produce the same message on purpose, so callers cannot probe which
// field was wrong. Deactivated accounts get a distinct message.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	user, err := h.store.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid email or password",
			})
			return
		}
		internalError(c, "Failed to log in", err)
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Your account has been deactivated, please contact support",
		})
		return
	}

	if !h.store.VerifyPassword(user, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid email or password",
		})
		return
	}

	now := time.Now()
	user, err = h.store.Update(user.ID, services.UserPatch{LastLogin: &now})
	if err != nil {
		internalError(c, "Failed to log in", err)
		return
	}

	token, expiresAt, err := h.tokens.Issue(user)
	if err != nil {
		internalError(c, "Failed to generate token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"data": gin.H{
			"token":      token,
			"expires_at": expiresAt,
			"user":       user.Public(),
		},
	})
}

// Profile returns the authenticated user.
func (h *AuthHandler) Profile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user": user.Public(),
		},
	})
}

// Refresh issues a fresh token from the user's current store state, not from
// the old token's claims, so role or email changes take effect here.
func (h *AuthHandler) Refresh(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	token, expiresAt, err := h.tokens.Issue(user)
	if err != nil {
		internalError(c, "Failed to refresh token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Token refreshed successfully",
		"data": gin.H{
			"token":      token,
			"expires_at": expiresAt,
			"user":       user.Public(),
		},
	})
}

// Logout is a stateless acknowledgement. Tokens stay valid until expiry, the
// client is expected to discard its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logout successful",
	})
}

func internalError(c *gin.Context, message string, err error) {
	log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": message,
	})
}

func unauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "User not authenticated",
	})
}
