package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestGetUserIDFromTokenWithoutToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	if _, err := GetUserIDFromToken(c); err == nil {
		t.Fatal("expected an error when no token is attached to the context")
	}
}

func TestGetUserIDFromTokenWithWrongContextValue(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("user", "not a token")

	if _, err := GetUserIDFromToken(c); err == nil {
		t.Fatal("expected an error for a non-token context value")
	}
}
