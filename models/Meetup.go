package models

import (
	"time"

	"gorm.io/gorm"
)

type MeetupStatus string

const (
	MeetupProposed  MeetupStatus = "proposed"
	MeetupAccepted  MeetupStatus = "accepted"
	MeetupRejected  MeetupStatus = "rejected"
	MeetupCompleted MeetupStatus = "completed"
	MeetupCancelled MeetupStatus = "cancelled"
)

type Meetup struct {
	gorm.Model
	ListingID uint    `json:"listingID" gorm:"index"`
	Listing   Listing `json:"listing" gorm:"foreignKey:ListingID;references:ID"`
	BuyerID   uint    `json:"buyerID" gorm:"index"`
	Buyer     User    `json:"buyer" gorm:"foreignKey:BuyerID;references:ID"`
	SellerID  uint    `json:"sellerID" gorm:"index"`
	Seller    User    `json:"seller" gorm:"foreignKey:SellerID;references:ID"`

	// Either an official location reference or a fully specified custom spot.
	LocationID                *uint          `json:"locationID"`
	Location                  MeetupLocation `json:"location" gorm:"foreignKey:LocationID;references:ID"`
	CustomLocationName        string         `json:"customLocationName"`
	CustomLocationLng         *float64       `json:"customLocationLng"`
	CustomLocationLat         *float64       `json:"customLocationLat"`
	CustomLocationDescription string         `json:"customLocationDescription"`

	ProposedTime time.Time    `json:"proposedTime"`
	Status       MeetupStatus `json:"status" gorm:"type:varchar(10);default:'proposed';index"`
	ProposedByID uint         `json:"proposedByID"`
	Notes        string       `json:"notes" gorm:"type:varchar(500)"`

	BuyerSafetyConfirmed  bool `json:"buyerSafetyConfirmed" gorm:"default:false"`
	SellerSafetyConfirmed bool `json:"sellerSafetyConfirmed" gorm:"default:false"`
}

// IsParticipant reports whether the user is one of the two parties.
func (m *Meetup) IsParticipant(userID uint) bool {
	return m.BuyerID == userID || m.SellerID == userID
}
