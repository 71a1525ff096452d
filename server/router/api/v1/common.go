package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/classwise/classwise/server/internal/errors"
	"github.com/classwise/classwise/store"
)

// userContextKey is the echo context key the auth middleware stores the
// authenticated user under.
const userContextKey = "classwise-user"

func (s *APIV1Service) currentUser(c echo.Context) *store.User {
	user, _ := c.Get(userContextKey).(*store.User)
	return user
}

// errorJSON writes a coded error as a JSON response, mapping internal error
// codes onto HTTP statuses. Errors without a code become 500s without leaking
// the underlying cause.
func errorJSON(c echo.Context, err error) error {
	serr, ok := err.(*errors.SearchError)
	if !ok {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"code":    string(errors.ErrCodeInternal),
			"message": "internal error",
		})
	}
	code := serr.Code
	status := http.StatusInternalServerError
	message := "internal error"

	switch code {
	case errors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
		message = "unauthorized"
	case errors.ErrCodeInvalidArgument:
		status = http.StatusBadRequest
		message = "invalid request"
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
		message = "not found"
	case errors.ErrCodeServiceUnavailable, errors.ErrCodeEmbeddingFailed, errors.ErrCodeIndexUnavailable:
		status = http.StatusServiceUnavailable
		message = "service unavailable"
	case errors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
		message = "timed out"
	}

	if serr.Message != "" && status != http.StatusInternalServerError {
		message = serr.Message
	}
	return c.JSON(status, map[string]string{
		"code":    string(code),
		"message": message,
	})
}
