package v1

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classwise/classwise/server/internal/errors"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header   string
		expected string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"Bearer  abc123 ", "abc123"},
		{"Basic abc123", ""},
		{"", ""},
		{"Bearer", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, extractBearerToken(tt.header), "header: %q", tt.header)
	}
}

func TestErrorJSONStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{errors.Unauthorized("no"), http.StatusUnauthorized},
		{errors.InvalidArgument("bad"), http.StatusBadRequest},
		{errors.NotFound("gone"), http.StatusNotFound},
		{errors.ServiceUnavailable("down"), http.StatusServiceUnavailable},
		{errors.Timeout("slow"), http.StatusGatewayTimeout},
		{assert.AnError, http.StatusInternalServerError},
	}

	e := echo.New()
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, errorJSON(e.NewContext(req, rec), tt.err))
		assert.Equal(t, tt.status, rec.Code)
	}
}

func TestErrorJSONUncodedErrorIsInternal(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	// A bare store error carries no code and must surface as 500, not as a
	// degraded dependency.
	require.NoError(t, errorJSON(e.NewContext(req, rec), pkgerrors.Wrap(assert.AnError, "query failed")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL")
	assert.NotContains(t, rec.Body.String(), "SERVICE_UNAVAILABLE")
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestErrorJSONHidesInternalCause(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, errorJSON(e.NewContext(req, rec), errors.HydrationFailed(assert.AnError)))

	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}
