package handlers

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/jobboard-api/internal/application"
	"github.com/oksasatya/jobboard-api/pkg/response"
)

func ok[T any](c *gin.Context, status int, data T, message string, meta any) {
	response.Success(c, status, data, message, meta).Send(c)
}

func fail(c *gin.Context, status int, message string, details any) {
	response.Error(c, status, message, details).Abort(c)
}

// statusFor maps the application error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, app.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, app.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with its public message; server errors are logged
// with the full cause and never exposed.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString(response.RequestIDKey),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	fail(c, status, app.PublicMessage(err), nil)
}
