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

	apphttp "github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/internal/interfaces/http"
	pkgjwt "github.com/jaimerodriguesjunior-ptbr/autoeletrica-sub000/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testOrgID     = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "autoeletrica-test"
	testExpMin    = 60
)

// buildTestApp monta uma aplicação Fiber mínima com o middleware de auth e um
// handler que devolve a organização extraída do token.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{apphttp.AuthMiddleware(testJWTSecret)}
	if len(allowedRoles) > 0 {
		handlers = append(handlers, apphttp.RequireRole(allowedRoles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"organization_id": apphttp.GetOrganizationID(c),
			"role":            apphttp.GetRole(c),
		})
	})
	app.Get("/protected", handlers...)
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testOrgID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	var parsed map[string]any
	_ = json.Unmarshal(body, &parsed)
	return resp, parsed
}

func TestAuthMiddleware_TokenValidoCarregaOrganizacao(t *testing.T) {
	app := buildTestApp()

	resp, body := doRequest(t, app, tokenForRole(t, "admin"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testOrgID, body["organization_id"])
}

func TestAuthMiddleware_SemHeader(t *testing.T) {
	app := buildTestApp()

	resp, body := doRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body["code"])
}

func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	app := buildTestApp()

	resp, body := doRequest(t, app, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body["code"])
}

func TestAuthMiddleware_TokenAdulterado(t *testing.T) {
	app := buildTestApp()

	resp, _ := doRequest(t, app, tokenForRole(t, "admin")+"x")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	app := buildTestApp("admin", "gerente")

	resp, _ := doRequest(t, app, tokenForRole(t, "gerente"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doRequest(t, app, tokenForRole(t, "mecanico"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body["code"])
}
