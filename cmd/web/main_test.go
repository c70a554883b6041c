package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLandingPage(t *testing.T) {
	h, err := landing(page{SSHHost: "play.example.org", SSHPort: "2222"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "ssh -t -p 2222 play.example.org")
	assert.Contains(t, rec.Body.String(), "Special weapon")
}

func TestLandingPageUnknownPath(t *testing.T) {
	h, err := landing(page{SSHHost: "localhost"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommandOmitsDefaultPort(t *testing.T) {
	assert.Equal(t, "ssh -t host", page{SSHHost: "host", SSHPort: "22"}.Command())
	assert.Equal(t, "ssh -t host", page{SSHHost: "host"}.Command())
}
