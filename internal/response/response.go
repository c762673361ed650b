// Package response writes the JSON error envelope shared by every endpoint:
//
//	{"error": {"code": "NOT_FOUND", "message": "team not found"}}
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Codes used by more than one module.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeNotFound       = "NOT_FOUND"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeInternal       = "INTERNAL_ERROR"
)

// ErrorResponse represents error response structure.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the inner object of ErrorResponse.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func envelope(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Code: code, Message: message}}
}

// Error writes the envelope with the given status.
func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, envelope(code, message))
}

// Abort writes the envelope and stops the handler chain.
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, envelope(code, message))
}

// BadRequest writes 400 INVALID_REQUEST.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeInvalidRequest, message)
}

// NotFound writes 404 NOT_FOUND.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, CodeNotFound, message)
}

// Unauthorized writes 401 UNAUTHORIZED.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, CodeUnauthorized, message)
}

// Conflict writes 409 with a module-specific code.
func Conflict(c *gin.Context, code, message string) {
	Error(c, http.StatusConflict, code, message)
}

// Internal writes 500 without leaking the cause; callers log it.
func Internal(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "internal server error")
}
