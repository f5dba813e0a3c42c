package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/clinovia/portal-api/pkg/errors"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	TraceID string            `json:"trace_id,omitempty"`
}

// ErrorHandler turns errors attached via c.Error into JSON responses.
// Status comes from the error itself when it knows one; anything else is
// a 500 with the detail kept out of the response body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		traceID := c.GetString(ContextRequestID)

		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("trace_id", traceID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("client_ip", c.ClientIP()).
				Msg("Request error")
		}

		lastErr := c.Errors.Last()
		status := http.StatusInternalServerError
		message := "internal server error"
		var fields map[string]string

		if appErr, ok := apperrors.As(lastErr.Err); ok {
			status = appErr.StatusCode()
			message = appErr.Message
			fields = appErr.Fields
		} else if err, ok := lastErr.Err.(interface{ StatusCode() int }); ok {
			status = err.StatusCode()
			message = lastErr.Error()
		}

		c.JSON(status, ErrorResponse{
			Code:    status,
			Message: message,
			Fields:  fields,
			TraceID: traceID,
		})
	}
}
