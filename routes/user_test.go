package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/navid1111/DormDeals/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func TestNormalizeSearchQuery(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"rahim", "rahim", true},
		{"  rahim  ", "rahim", true},
		{"ab", "ab", true},
		{"a", "", false},
		{" a ", "", false},
		{"", "", false},
		{"   ", "", false},
	}

	for _, tc := range cases {
		got, ok := normalizeSearchQuery(tc.raw)
		if ok != tc.ok {
			t.Errorf("normalizeSearchQuery(%q) ok = %v, want %v", tc.raw, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("normalizeSearchQuery(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestSearchUsersRejectsShortQuery(t *testing.T) {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	verifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	verifierMiddleware := verifier.Verify(func() interface{} { return new(utils.AccessToken) })
	app.Get("/api/user/search", verifierMiddleware, SearchUsers)
	if err := app.Build(); err != nil {
		t.Fatalf("failed to build test app: %v", err)
	}

	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, err := signer.Sign(utils.AccessToken{ID: 1, Role: "user", UniversityID: 2})
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}

	// The length check fires before any storage access.
	req := httptest.NewRequest(http.MethodGet, "/api/user/search?query=a", nil)
	req.Header.Set("Authorization", "Bearer "+string(token))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a one-character query, got %d", resp.Code)
	}
}
