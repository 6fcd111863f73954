package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key the request id middleware writes to.
const RequestIDKey = "request_id"

// APIResponse is the envelope every endpoint answers with. Success tells
// callers whether the operation applied; Message is always human readable.
type APIResponse[T any] struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      T         `json:"data,omitempty"`
	Meta      any       `json:"meta,omitempty"`
	Error     any       `json:"error,omitempty"`
}

// ListMeta accompanies collection payloads.
type ListMeta struct {
	Count int `json:"count"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta any) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString(RequestIDKey),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
}

// Error builds a failure envelope; details is optional structured context
// such as validation field errors.
func Error(ctx *gin.Context, status int, message string, details any) APIResponse[any] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return APIResponse[any]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString(RequestIDKey),
		Success:   false,
		Message:   message,
		Error:     details,
	}
}

// Send writes r with its own status code.
func (r APIResponse[T]) Send(c *gin.Context) {
	c.JSON(r.Status, r)
}

// Abort writes r and stops the remaining handlers.
func (r APIResponse[T]) Abort(c *gin.Context) {
	c.AbortWithStatusJSON(r.Status, r)
}
