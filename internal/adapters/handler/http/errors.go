package http

import (
	"errors"
	"net/http"

	"github.com/comitanigiacomo/kanso-constellation/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-constellation/internal/core/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps the error taxonomy onto HTTP. Store failures are 503 so
// clients know the request can be retried.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrHabitNotFound):
		return http.StatusNotFound
	case domain.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(status int, err error) string {
	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		return err.Error()
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusServiceUnavailable:
		return "storage temporarily unavailable, retry later"
	default:
		return "internal server error"
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	c.JSON(status, errorResponse{Error: messageFor(status, err)})
}

func currentUser(c *gin.Context, logger *zap.Logger) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondError(c, logger, domain.ErrUnauthenticated)
		return "", false
	}
	return userID, true
}
