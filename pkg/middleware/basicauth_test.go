package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func basicAuthTestServer() (http.Handler, *bool) {
	reached := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusNoContent)
	})
	return BasicAuth("rimu_admin", "rimu2024secure")(inner), &reached
}

func TestBasicAuth_ValidCredentials(t *testing.T) {
	handler, reached := basicAuthTestServer()

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.SetBasicAuth("rimu_admin", "rimu2024secure")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, *reached)
}

func TestBasicAuth_MissingCredentials(t *testing.T) {
	handler, reached := basicAuthTestServer()

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `Basic realm="restricted"`, rec.Header().Get("WWW-Authenticate"))
	assert.False(t, *reached, "handler must not run for unauthorized requests")
}

func TestBasicAuth_WrongPassword(t *testing.T) {
	handler, reached := basicAuthTestServer()

	req := httptest.NewRequest(http.MethodDelete, "/admin", nil)
	req.SetBasicAuth("rimu_admin", "wrong")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestBasicAuth_WrongUsername(t *testing.T) {
	handler, reached := basicAuthTestServer()

	req := httptest.NewRequest(http.MethodDelete, "/admin", nil)
	req.SetBasicAuth("intruder", "rimu2024secure")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}
