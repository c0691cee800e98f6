package utils

import (
	"regexp"
	"strings"

	"github.com/navid1111/DormDeals/models"
	"github.com/navid1111/DormDeals/storage"
)

var emailFormat = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

func IsValidEmailFormat(email string) bool {
	return emailFormat.MatchString(email)
}

// EmailDomain returns the lowercased domain part of an address, or "" when
// the address has no domain.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at == -1 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// ResolveUniversityByEmail matches the email domain against the active
// university directory. Registration derives the user's university from
// this, never from client input.
func ResolveUniversityByEmail(email string) (*models.University, bool) {
	domain := EmailDomain(email)
	if domain == "" {
		return nil, false
	}

	var university models.University
	err := storage.DB.Where("email_domain = ? AND is_active = ?", domain, true).
		First(&university).Error
	if err != nil {
		return nil, false
	}
	return &university, true
}
