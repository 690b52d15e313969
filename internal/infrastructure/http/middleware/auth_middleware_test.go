package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ashboi005/insight-ai/internal/domain/entities"
)

func adminTestContext(t *testing.T, user *entities.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set("user", user)
	}
	return c, rec
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	admin := entities.NewUser("admin@example.com", "hash", "Ad", "Min", entities.TeamGeneral)
	admin.Role = entities.RoleAdmin
	c, _ := adminTestContext(t, admin)

	called := false
	handler := RequireAdmin()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("admin request rejected: %v", err)
	}
	if !called {
		t.Error("next handler not invoked for admin")
	}
}

func TestRequireAdmin_ForbidsRegularUser(t *testing.T) {
	user := entities.NewUser("user@example.com", "hash", "Us", "Er", entities.TeamDevs)
	c, _ := adminTestContext(t, user)

	handler := RequireAdmin()(func(c echo.Context) error {
		t.Fatal("next handler should not run for non-admin")
		return nil
	})

	err := handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestRequireAdmin_RejectsMissingUser(t *testing.T) {
	c, _ := adminTestContext(t, nil)

	handler := RequireAdmin()(func(c echo.Context) error {
		t.Fatal("next handler should not run without a user")
		return nil
	})

	err := handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
