package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritikk978/next-nest/internal/httperr"
	"github.com/ritikk978/next-nest/internal/model"
)

func contextWithRole(role model.UserRole) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("user_id", uint(42))
	c.Set("user_role", role)
	return c
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	for _, role := range []model.UserRole{model.RoleTenant, model.RoleLandlord, model.RoleBroker} {
		c := contextWithRole(role)

		called := false
		err := RequireAdmin(func(echo.Context) error {
			called = true
			return nil
		})(c)

		require.Error(t, err)
		herr, ok := err.(*httperr.Error)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, herr.Status)
		assert.False(t, called)
	}
}

func TestRequireAdminRejectsMissingRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := RequireAdmin(func(echo.Context) error { return nil })(c)
	require.Error(t, err)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	c := contextWithRole(model.RoleAdmin)

	called := false
	err := RequireAdmin(func(echo.Context) error {
		called = true
		return nil
	})(c)

	require.NoError(t, err)
	assert.True(t, called)
}
