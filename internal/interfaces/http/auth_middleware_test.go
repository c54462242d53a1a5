package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefankostic/efakture/internal/domain/entity"
	apphttp "github.com/stefankostic/efakture/internal/interfaces/http"
	pkgjwt "github.com/stefankostic/efakture/pkg/jwt"
)

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testCookieName = "eg_token"
	testIssuer     = "efakture-test"
	testExpMin     = 60
)

// memUserRepo serves a fixed user set for middleware tests.
type memUserRepo struct {
	users map[int64]*entity.User
}

func (m *memUserRepo) Create(*entity.User) error               { return nil }
func (m *memUserRepo) GetByID(id int64) (*entity.User, error)  { return m.users[id], nil }
func (m *memUserRepo) GetByEmail(string) (*entity.User, error) { return nil, nil }
func (m *memUserRepo) GetByPIB(string) (*entity.User, error)   { return nil, nil }
func (m *memUserRepo) Update(*entity.User) error               { return nil }
func (m *memUserRepo) List() ([]*entity.User, error)           { return nil, nil }

// buildTestApp wires a minimal Fiber app with one protected route:
// AuthMiddleware to resolve the user, optionally RequireRole on top, and a
// dummy handler echoing the resolved identity.
func buildTestApp(repo *memUserRepo, roles ...entity.Role) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{apphttp.AuthMiddleware(testJWTSecret, testCookieName, repo)}
	if len(roles) > 0 {
		handlers = append(handlers, apphttp.RequireRole(roles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		user := apphttp.GetUser(c)
		return c.JSON(fiber.Map{"id": user.ID, "role": user.Role})
	})
	app.Get("/protected", handlers...)
	return app
}

func testRepo() *memUserRepo {
	pib := "100000001"
	return &memUserRepo{users: map[int64]*entity.User{
		1: {ID: 1, Name: "Alpha d.o.o.", Role: entity.RoleCompany, PIB: &pib},
		2: {ID: 2, Name: "Admin", Role: entity.RoleAdmin},
	}}
}

func tokenFor(t *testing.T, userID int64, role entity.Role) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, string(role), testIssuer, testExpMin)
	require.NoError(t, err)
	return tok
}

func doRequest(t *testing.T, app *fiber.App, mutate func(*http.Request)) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if mutate != nil {
		mutate(req)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddlewareCookie(t *testing.T) {
	app := buildTestApp(testRepo())
	token := tokenFor(t, 1, entity.RoleCompany)

	resp := doRequest(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, float64(1), payload["id"])
	assert.Equal(t, "company", payload["role"])
}

func TestAuthMiddlewareBearerFallback(t *testing.T) {
	app := buildTestApp(testRepo())
	token := tokenFor(t, 2, entity.RoleAdmin)

	resp := doRequest(t, app, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	app := buildTestApp(testRepo())
	resp := doRequest(t, app, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareBadToken(t *testing.T) {
	app := buildTestApp(testRepo())
	resp := doRequest(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: "not-a-token"})
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareDeletedUser(t *testing.T) {
	app := buildTestApp(testRepo())
	token := tokenFor(t, 404, entity.RoleCompany)

	resp := doRequest(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "a token for a removed user is rejected")
}

func TestRequireRoleAllows(t *testing.T) {
	app := buildTestApp(testRepo(), entity.RoleAdmin)
	token := tokenFor(t, 2, entity.RoleAdmin)

	resp := doRequest(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRoleDenies(t *testing.T) {
	app := buildTestApp(testRepo(), entity.RoleAdmin)
	token := tokenFor(t, 1, entity.RoleCompany)

	resp := doRequest(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// The role check runs against the stored user, not the token claim, so a
// stale token cannot escalate.
func TestRequireRoleUsesStoredRole(t *testing.T) {
	app := buildTestApp(testRepo(), entity.RoleAdmin)
	token := tokenFor(t, 1, entity.RoleAdmin) // forged claim, user 1 is a company

	resp := doRequest(t, app, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
