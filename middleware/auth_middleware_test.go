package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runWithUserType(t *testing.T, mw echo.MiddlewareFunc, userType string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userType != "" {
		c.Set("userType", userType)
	}

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestRequireUserTypeAllowsMatchingType(t *testing.T) {
	rec := runWithUserType(t, RequireUserType("admin"), "admin")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestRequireUserTypeAllowsAnyListedType(t *testing.T) {
	rec := runWithUserType(t, RequireUserType("candidate", "agent"), "agent")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for agent, got %d", rec.Code)
	}
}

func TestRequireUserTypeRejectsOtherTypes(t *testing.T) {
	rec := runWithUserType(t, RequireUserType("admin"), "candidate")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for candidate on admin route, got %d", rec.Code)
	}
}

func TestRequireUserTypeRejectsMissingClaims(t *testing.T) {
	rec := runWithUserType(t, RequireUserType("admin"), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without claims, got %d", rec.Code)
	}
}

func TestRequireApprovedAccountAdminBypass(t *testing.T) {
	// Admins never hit the approval lookup, so no database is needed here.
	rec := runWithUserType(t, RequireApprovedAccount(nil), "admin")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", rec.Code)
	}
}

func TestRequireApprovedAccountRejectsBadUserID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userType", "candidate")
	c.Set("userId", "not-a-hex-id")

	handler := RequireApprovedAccount(nil)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for malformed user ID, got %d", rec.Code)
	}
}
