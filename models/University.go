package models

import "gorm.io/gorm"

// University is reference data: registration matches the email domain
// against it and listings are scoped by it. Deactivating one never
// cascades to users or listings.
type University struct {
	gorm.Model
	Name        string `json:"name"`
	Code        string `json:"code" gorm:"uniqueIndex;type:varchar(20)"`
	EmailDomain string `json:"emailDomain" gorm:"uniqueIndex"`
	City        string `json:"city"`
	Country     string `json:"country"`
	IsActive    *bool  `json:"isActive" gorm:"default:true"`
}
