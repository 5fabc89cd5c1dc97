package validation

import (
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register installs the custom rules on gin's binding engine. Call once at
// startup, before any request binding happens.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("strongpassword", strongPassword)
	}
}

// strongPassword requires at least one lowercase letter, one uppercase letter
// and one digit. Length is enforced separately by a min tag.
func strongPassword(fl validator.FieldLevel) bool {
	var hasLower, hasUpper, hasDigit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLower && hasUpper && hasDigit
}

// Message maps a failed rule to a human readable explanation for the
// field-level error details in 400 responses.
func Message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Must be at least " + fe.Param() + " characters long"
	case "max":
		return "Must be at most " + fe.Param() + " characters long"
	case "strongpassword":
		return "Must contain at least one lowercase letter, one uppercase letter and one number"
	default:
		return "Invalid value"
	}
}
