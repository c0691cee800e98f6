package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/navid1111/DormDeals/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildModerationTestApp wires the moderation party with the real JWT
// verifier and admin middleware, ending in a stub so the RBAC layer is
// exercised without a database.
func buildModerationTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	moderation := app.Party("/api/moderation", accessTokenVerifierMiddleware)
	{
		moderation.Put("/listings/{id:uint}", utils.AdminOnlyMiddleware, func(ctx iris.Context) {
			// Stand-in for ModerateListing's scoping check against a
			// listing that belongs to university 2.
			claims := utils.GetClaims(ctx)
			if !claims.CanModerate(2) {
				utils.CreateForbidden(ctx, "You are only authorized to moderate listings from your university")
				return
			}
			ctx.JSON(iris.Map{"success": true})
		})
	}
	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

func signModerationToken(t *testing.T, claims utils.AccessToken) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, err := signer.Sign(claims)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return string(token)
}

func moderationRequest(app *iris.Application, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/moderation/listings/1", strings.NewReader(`{"action":"approve"}`))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestModerationRBAC(t *testing.T) {
	app := buildModerationTestApp()

	// No token
	if resp := moderationRequest(app, ""); resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// Student role
	student := signModerationToken(t, utils.AccessToken{ID: 1, Role: "user", UniversityID: 2})
	if resp := moderationRequest(app, student); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for student role, got %d", resp.Code)
	}

	// University-admin of another university
	otherAdmin := signModerationToken(t, utils.AccessToken{ID: 2, Role: "university-admin", AdminUniversityID: 1})
	if resp := moderationRequest(app, otherAdmin); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for cross-university admin, got %d", resp.Code)
	}

	// University-admin of the listing's university
	sameAdmin := signModerationToken(t, utils.AccessToken{ID: 3, Role: "university-admin", AdminUniversityID: 2})
	if resp := moderationRequest(app, sameAdmin); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for same-university admin, got %d", resp.Code)
	}

	// Global admin
	global := signModerationToken(t, utils.AccessToken{ID: 4, Role: "admin"})
	if resp := moderationRequest(app, global); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for global admin, got %d", resp.Code)
	}
}
