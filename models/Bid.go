package models

import "gorm.io/gorm"

// Bid rows are append-only; no handler updates or deletes them.
type Bid struct {
	gorm.Model
	ListingID uint    `json:"listingID" gorm:"index"`
	UserID    uint    `json:"userID" gorm:"index"`
	Amount    float64 `json:"amount"`
	Message   string  `json:"message" gorm:"type:varchar(500)"`
	User      User    `json:"user" gorm:"foreignKey:UserID;references:ID"`
}
