package httperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(err, c)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestTypedErrorEnvelope(t *testing.T) {
	rec, body := render(t, NotFound("Property not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
	assert.Equal(t, "Property not found", body["message"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{BadRequest("bad"), http.StatusBadRequest},
		{Unauthorized("no"), http.StatusUnauthorized},
		{Forbidden("denied"), http.StatusForbidden},
		{Conflict("dup"), http.StatusConflict},
		{PayloadTooLarge("big"), http.StatusRequestEntityTooLarge},
		{Internal("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		rec, _ := render(t, tc.err)
		assert.Equal(t, tc.status, rec.Code)
	}
}

func TestValidationRendersFieldMap(t *testing.T) {
	rec, body := render(t, Validation(map[string]string{
		"email":    "A valid email address is required",
		"password": "Password must be at least 8 characters",
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "A valid email address is required", body["email"])
	assert.Equal(t, "Password must be at least 8 characters", body["password"])
	// No envelope keys on validation responses
	assert.NotContains(t, body, "status")
	assert.NotContains(t, body, "timestamp")
}

func TestUnknownErrorIsMasked(t *testing.T) {
	rec, body := render(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "An unexpected error occurred", body["message"])
	assert.NotContains(t, body["message"], "pq")
}

func TestEchoHTTPErrorPassesThrough(t *testing.T) {
	rec, body := render(t, echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method Not Allowed", body["message"])
}
