package utils

import (
	"os"
	"testing"
)

func TestCanModerate(t *testing.T) {
	cases := []struct {
		name         string
		claims       AccessToken
		universityID uint
		want         bool
	}{
		{"global admin any university", AccessToken{Role: "admin"}, 5, true},
		{"university admin own university", AccessToken{Role: "university-admin", AdminUniversityID: 5}, 5, true},
		{"university admin other university", AccessToken{Role: "university-admin", AdminUniversityID: 3}, 5, false},
		{"university admin without assignment", AccessToken{Role: "university-admin"}, 5, false},
		{"student", AccessToken{Role: "user", UniversityID: 5}, 5, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.claims.CanModerate(tc.universityID); got != tc.want {
				t.Errorf("CanModerate(%d) = %v, want %v", tc.universityID, got, tc.want)
			}
		})
	}
}

func TestEmailVerificationTokenRoundTrip(t *testing.T) {
	os.Setenv("EMAIL_TOKEN_SECRET", "testsecret")

	token, err := CreateEmailVerificationToken(42, "student@iut-dhaka.edu")
	if err != nil {
		t.Fatalf("failed to create token: %v", err)
	}

	userID, err := ParseEmailVerificationToken(token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestEmailVerificationTokenRejectsTampering(t *testing.T) {
	os.Setenv("EMAIL_TOKEN_SECRET", "testsecret")
	token, err := CreateEmailVerificationToken(42, "student@iut-dhaka.edu")
	if err != nil {
		t.Fatalf("failed to create token: %v", err)
	}

	if _, err := ParseEmailVerificationToken(token + "x"); err == nil {
		t.Error("tampered token should not verify")
	}

	os.Setenv("EMAIL_TOKEN_SECRET", "othersecret")
	if _, err := ParseEmailVerificationToken(token); err == nil {
		t.Error("token signed with a different secret should not verify")
	}
	os.Setenv("EMAIL_TOKEN_SECRET", "testsecret")
}
