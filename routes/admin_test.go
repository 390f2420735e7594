package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/sanntiSG/carAPP/models"
	"github.com/sanntiSG/carAPP/storage"
	"github.com/sanntiSG/carAPP/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildAdminApp wires the admin surface behind the real verifier + role check.
func buildAdminApp(t *testing.T) *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	return buildApp(t, func(app *iris.Application) {
		accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
		accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

		admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
		{
			admin.Get("/stats", AdminStats)
			admin.Get("/activity", AdminActivity)
		}
	})
}

// signTestToken returns a signed JWT with the given role
func signTestToken(role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: 1, Role: role})
	return string(token)
}

func getWithToken(app *iris.Application, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestAdminStatsRBAC(t *testing.T) {
	setupTestDB(t)
	app := buildAdminApp(t)

	if resp := getWithToken(app, "/api/admin/stats", ""); resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	if resp := getWithToken(app, "/api/admin/stats", signTestToken("user")); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", resp.Code)
	}

	if resp := getWithToken(app, "/api/admin/stats", signTestToken("admin")); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d", resp.Code)
	}

	if resp := getWithToken(app, "/api/admin/stats", signTestToken("super_admin")); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for super_admin role, got %d", resp.Code)
	}
}

func TestAdminStatsCounts(t *testing.T) {
	setupTestDB(t)
	app := buildAdminApp(t)

	cars := []models.Car{
		{Brand: "Toyota", CarModel: "Corolla", Year: 2021, Price: 18500, Status: models.CarAvailable, Views: 10},
		{Brand: "Honda", CarModel: "Civic", Year: 2020, Price: 17200, Status: models.CarReserved, Views: 5},
		{Brand: "Ford", CarModel: "Ranger", Year: 2022, Price: 32750, Status: models.CarSold, Views: 3},
	}
	for i := range cars {
		if err := storage.DB.Create(&cars[i]).Error; err != nil {
			t.Fatalf("failed to seed car: %v", err)
		}
	}

	resp := getWithToken(app, "/api/admin/stats", signTestToken("admin"))
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.Code)
	}

	body := resp.Body.String()
	for _, fragment := range []string{`"AVAILABLE":1`, `"RESERVED":1`, `"SOLD":1`, `"total_views":18`} {
		if !strings.Contains(body, fragment) {
			t.Errorf("stats body missing %s: %s", fragment, body)
		}
	}
}
