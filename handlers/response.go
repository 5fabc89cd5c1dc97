package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"studio-api/validation"
)

// bindingError converts a ShouldBindJSON failure into a 400 response with
// field-level details when the failure came from validation tags.
func bindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]gin.H, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, gin.H{
				"field":   strings.ToLower(fe.Field()),
				"message": validation.Message(fe),
			})
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Please correct the errors below",
			"errors":  details,
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
