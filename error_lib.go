package blog

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ApiError struct {
	Status    int    `json:"-"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

var (
	NotFound = ApiError{
		Status:    http.StatusNotFound,
		ErrorCode: "NOT_FOUND",
		Message:   "%s not found",
	}
	InternalServerError = ApiError{
		Status:    http.StatusInternalServerError,
		ErrorCode: "INTERNAL_SERVER_ERROR",
		Message:   "An unknown error occurred",
	}
)

func (e ApiError) New(messages ...string) ApiError {
	args := make([]any, len(messages))
	for i, msg := range messages {
		args[i] = msg
	}

	message := fmt.Sprintf(e.Message, args...)
	return ApiError{
		Status:    e.Status,
		ErrorCode: e.ErrorCode,
		Message:   message,
	}
}

func (e ApiError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// StatusCode returns the HTTP status for e, defaulting to 400 for errors
// declared without one.
func (e ApiError) StatusCode() int {
	if e.Status == 0 {
		return http.StatusBadRequest
	}
	return e.Status
}

type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// AsApiError unwraps err into an ApiError. Anything that is not one becomes
// InternalServerError so driver messages never reach the client.
func AsApiError(err error) ApiError {
	var apiErr ApiError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return InternalServerError
}

func SendError(c *gin.Context, err error) {
	apiErr := AsApiError(err)
	c.AbortWithStatusJSON(apiErr.StatusCode(), ErrorResponse{
		ErrorCode: apiErr.ErrorCode,
		Message:   apiErr.Message,
	})
}
