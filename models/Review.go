package models

import "gorm.io/gorm"

// Review rates the other party of a transaction. The composite unique
// index keeps one review per (reviewer, listing) pair; a duplicate insert
// surfaces as a conflict.
type Review struct {
	gorm.Model
	ReviewerID     uint    `json:"reviewerID" gorm:"uniqueIndex:idx_reviewer_listing"`
	Reviewer       User    `json:"reviewer" gorm:"foreignKey:ReviewerID;references:ID"`
	ReviewedUserID uint    `json:"reviewedUserID" gorm:"index"`
	ListingID      uint    `json:"listingID" gorm:"uniqueIndex:idx_reviewer_listing"`
	Listing        Listing `json:"listing" gorm:"foreignKey:ListingID;references:ID"`
	Rating         int     `json:"rating"`
	Comment        string  `json:"comment" gorm:"type:varchar(500)"`
}
