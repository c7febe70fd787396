package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minhhua/figure-store/internal/auth"
)

const testSecret = "middleware-test-secret"

func authedServer(t *testing.T, issuer *auth.Issuer, mw ...echo.MiddlewareFunc) *echo.Echo {
	t.Helper()
	e := echo.New()
	chain := append([]echo.MiddlewareFunc{JWTAuth(issuer)}, mw...)
	e.GET("/protected", func(c echo.Context) error {
		id, role, ok := Identity(c)
		if !ok {
			t.Error("Identity() not populated after JWTAuth")
		}
		return c.JSON(http.StatusOK, echo.Map{"id": id, "role": role})
	}, chain...)
	return e
}

func TestJWTAuthMissingToken(t *testing.T) {
	issuer := auth.NewIssuer(testSecret, time.Hour)
	e := authedServer(t, issuer)

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"scheme only", "Bearer"},
		{"blank", "   "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "No token provided") {
				t.Errorf("body = %s, want no-token message", rec.Body.String())
			}
		})
	}
}

func TestJWTAuthInvalidToken(t *testing.T) {
	issuer := auth.NewIssuer(testSecret, time.Hour)
	e := authedServer(t, issuer)

	foreign, err := auth.NewIssuer("a-different-secret-key", time.Hour).Issue(5, "customer")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	expired, err := auth.NewIssuer(testSecret, -time.Minute).Issue(5, "customer")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	for name, token := range map[string]string{
		"garbage":      "garbage.token.value",
		"wrong secret": foreign,
		"expired":      expired,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "Invalid token") {
				t.Errorf("body = %s, want invalid-token message", rec.Body.String())
			}
		})
	}
}

func TestJWTAuthValidToken(t *testing.T) {
	issuer := auth.NewIssuer(testSecret, time.Hour)
	e := authedServer(t, issuer)

	token, err := issuer.Issue(42, "customer")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":42`) || !strings.Contains(rec.Body.String(), `"role":"customer"`) {
		t.Errorf("body = %s, want id and role echoed from the token", rec.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	issuer := auth.NewIssuer(testSecret, time.Hour)
	e := authedServer(t, issuer, RequireRole("admin"))

	cases := []struct {
		name     string
		role     string
		wantCode int
	}{
		{"customer blocked from admin route", "customer", http.StatusForbidden},
		{"admin allowed", "admin", http.StatusOK},
		{"unknown role blocked", "support", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := issuer.Issue(1, tc.role)
			if err != nil {
				t.Fatalf("Issue() error: %v", err)
			}
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if tc.wantCode == http.StatusForbidden &&
				!strings.Contains(rec.Body.String(), "required role") {
				t.Errorf("body = %s, want required-role message", rec.Body.String())
			}
		})
	}
}

func TestRequireRoleWithoutAuthentication(t *testing.T) {
	// RequireRole alone (no JWTAuth) must reject: no role in context.
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireRole("admin"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
