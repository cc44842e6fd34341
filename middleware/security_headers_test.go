package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestSecurityHeadersApplied(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := SecurityHeadersWithConfig(SecurityConfig{
		AllowedDomains: []string{"https://cdn.talentlink.app"},
	})(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options = %q", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}

	csp := rec.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "connect-src 'self' https://cdn.talentlink.app") {
		t.Fatalf("CSP missing connect-src directive: %q", csp)
	}
	if strings.Contains(csp, "script-src 'self' 'unsafe-inline'") {
		t.Fatal("inline scripts should stay disabled by default")
	}
}

func TestContentSecurityPolicyToggles(t *testing.T) {
	strict := SecurityConfig{}.contentSecurityPolicy()
	if !strings.Contains(strict, "script-src 'self'") || strings.Contains(strict, "unsafe-eval") {
		t.Fatalf("strict policy wrong: %q", strict)
	}

	loose := SecurityConfig{AllowInlineJS: true, AllowEval: true}.contentSecurityPolicy()
	if !strings.Contains(loose, "script-src 'self' 'unsafe-inline' 'unsafe-eval'") {
		t.Fatalf("loosened policy wrong: %q", loose)
	}
}
