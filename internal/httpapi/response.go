package httpapi

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"taskboard/internal/service"
)

// envelope is the uniform response shape for every endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func respondSuccess(c *gin.Context, code int, message string, data any) {
	c.JSON(code, envelope{Success: true, Status: "success", Message: message, Data: data})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, envelope{Success: false, Status: "error", Message: message, Data: gin.H{}})
}

// respondServiceError maps a service failure to its HTTP shape. Anything
// unrecognized is reported as an unknown error without leaking detail.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		respondError(c, 401, "Unauthorized access")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, 401, "Invalid email or password")
	case errors.Is(err, service.ErrTaskNotFound):
		respondError(c, 404, "Task not found")
	case errors.Is(err, service.ErrDueDateInPast):
		respondError(c, 400, "Due date cannot be in the past")
	case errors.Is(err, service.ErrSameStatus):
		respondError(c, 400, "Task is already in the same status")
	case errors.Is(err, service.ErrTaskCompleted):
		respondError(c, 400, "Task is already completed")
	case errors.Is(err, service.ErrTaskInProgress):
		respondError(c, 400, "Task is already in progress")
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, 422, err.Error())
	default:
		respondError(c, 500, "An unknown error occured")
	}
}

// bindingMessage turns the first field-validation failure into a short
// user-facing message, mirroring stop-at-first-error validation.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return field + " should not be empty"
		case "email":
			return field + " must be a valid email"
		case "min":
			return field + " must be at least " + fe.Param()
		case "oneof":
			return field + " must be one of " + fe.Param()
		}
		return field + " is invalid"
	}
	return "Invalid request payload"
}
