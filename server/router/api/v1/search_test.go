package v1

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classwise/classwise/store"
)

func TestSearchUnauthenticatedReturnsEmptyList(t *testing.T) {
	s := &APIV1Service{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=fractions", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, s.Search(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[]}`, rec.Body.String())
}

func TestSearchRejectsUnknownKind(t *testing.T) {
	s := &APIV1Service{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=fractions&kind=bogus", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(userContextKey, &store.User{ID: 1})

	require.NoError(t, s.Search(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptionalAuthMiddlewareAllowsAnonymous(t *testing.T) {
	s := &APIV1Service{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	rec := httptest.NewRecorder()

	called := false
	handler := s.OptionalAuthMiddleware(func(c echo.Context) error {
		called = true
		assert.Nil(t, s.currentUser(c))
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.True(t, called)
}
