package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/internship-tracker/internal/services"
	"github.com/SAP-F-2025/internship-tracker/internal/utils"
)

// BaseHandler carries the logger shared by every handler.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.GetLogger(c, h.logger)
}

// LogRequest records the operation a handler is about to perform.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	h.log(c).Info(msg, args...)
}

// LogError records a failure together with the route that hit it.
func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err, "path", c.Request.URL.Path)
	h.log(c).Error(msg, args...)
}

// parseID reads a positive numeric route parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ===== ERROR HANDLING =====

const connectionGuidance = "The database is unreachable. Check that PostgreSQL is running and that DB_HOST, DB_PORT and DB_NAME point at it."

// describeError maps a service error to a status code and a message safe to show.
func describeError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		return http.StatusBadRequest, "Please correct the highlighted fields."
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password."
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, "Your session has ended. Please log in again."
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, "You do not have access to that."
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "That posting or application no longer exists."
	case errors.Is(err, services.ErrConnection):
		return http.StatusServiceUnavailable, connectionGuidance
	case errors.Is(err, services.ErrQuery):
		return http.StatusInternalServerError, "The request could not be completed. Please try again."
	default:
		return http.StatusInternalServerError, "Something went wrong. Please try again."
	}
}

// handleServiceError logs unexpected failures and returns what to show the user.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error, msg string) (int, string) {
	status, message := describeError(err)
	if status >= http.StatusInternalServerError {
		h.LogError(c, err, msg)
	}
	return status, message
}
