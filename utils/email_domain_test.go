package utils

import "testing"

func TestEmailDomain(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"student@iut-dhaka.edu", "iut-dhaka.edu"},
		{"Student@IUT-Dhaka.EDU", "iut-dhaka.edu"},
		{"weird@name@du.ac.bd", "du.ac.bd"},
		{"no-at-sign", ""},
		{"trailing@", ""},
		{"", ""},
	}

	for _, tc := range cases {
		if got := EmailDomain(tc.email); got != tc.want {
			t.Errorf("EmailDomain(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

func TestIsValidEmailFormat(t *testing.T) {
	valid := []string{
		"student@iut-dhaka.edu",
		"first.last@du.ac.bd",
		"user123@cse.buet.ac.bd",
	}
	invalid := []string{
		"",
		"plainaddress",
		"@iut-dhaka.edu",
		"student@",
		"student@domain",
	}

	for _, email := range valid {
		if !IsValidEmailFormat(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmailFormat(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}
