package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studio-api/middleware"
	"studio-api/services"
)

type UserHandler struct {
	store  *services.UserStore
	tokens *services.TokenService
}

func NewUserHandler(store *services.UserStore, tokens *services.TokenService) *UserHandler {
	return &UserHandler{store: store, tokens: tokens}
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email *string `json:"email" binding:"omitempty,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,strongpassword"`
}

// UpdateProfile changes name and/or email. A token is re-issued only when the
// email changed, since the email claim would otherwise go stale.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	emailChanged := req.Email != nil && *req.Email != user.Email

	updated, err := h.store.Update(user.ID, services.UserPatch{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "This email is already in use by another user",
			})
			return
		}
		internalError(c, "Failed to update profile", err)
		return
	}

	data := gin.H{"user": updated.Public()}
	if emailChanged {
		token, expiresAt, err := h.tokens.Issue(updated)
		if err != nil {
			internalError(c, "Failed to generate token", err)
			return
		}
		data["token"] = token
		data["expires_at"] = expiresAt
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"data":    data,
	})
}

// ChangePassword requires the current password before accepting the new one.
// On a mismatch the stored hash is left untouched.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	if !h.store.VerifyPassword(user, req.CurrentPassword) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "The current password provided is incorrect",
		})
		return
	}

	if _, err := h.store.Update(user.ID, services.UserPatch{Password: &req.NewPassword}); err != nil {
		internalError(c, "Failed to change password", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password changed successfully",
	})
}

// Deactivate marks the account inactive. The record stays, future logins and
// token checks fail from here on.
func (h *UserHandler) Deactivate(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	inactive := false
	if _, err := h.store.Update(user.ID, services.UserPatch{IsActive: &inactive}); err != nil {
		internalError(c, "Failed to deactivate account", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account deactivated successfully",
	})
}

// List returns a page of active users. Admin only.
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	search := c.Query("search")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	users, total, err := h.store.List(page, limit, search)
	if err != nil {
		internalError(c, "Failed to list users", err)
		return
	}

	publicUsers := make([]any, 0, len(users))
	for i := range users {
		publicUsers = append(publicUsers, users[i].Public())
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"users": publicUsers,
			"pagination": gin.H{
				"current_page": page,
				"total_pages":  totalPages,
				"total_users":  total,
				"has_next":     int64(page*limit) < total,
				"has_prev":     page > 1,
			},
		},
	})
}

// Get returns a single user by id. Admin only.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.store.FindByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "The requested user does not exist",
			})
			return
		}
		internalError(c, "Failed to fetch user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user": user.Public(),
		},
	})
}

// Delete hard-removes a user. Admin only. Self-deletion is rejected so an
// admin cannot lock themselves out.
func (h *UserHandler) Delete(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		unauthenticated(c)
		return
	}

	id := c.Param("id")
	if id == current.ID {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "You cannot delete your own account",
		})
		return
	}

	if err := h.store.Delete(id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "The requested user does not exist",
			})
			return
		}
		internalError(c, "Failed to delete user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
	})
}
