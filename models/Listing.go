package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// ListingStatus is a closed set; changes go through CanTransition so an
// illegal move is a validation error instead of a silent write.
type ListingStatus string

const (
	ListingPending  ListingStatus = "pending"
	ListingActive   ListingStatus = "active"
	ListingSold     ListingStatus = "sold"
	ListingRejected ListingStatus = "rejected"
	ListingDeleted  ListingStatus = "deleted"
	ListingExpired  ListingStatus = "expired"
)

var listingTransitions = map[ListingStatus][]ListingStatus{
	ListingPending:  {ListingActive, ListingRejected},
	ListingActive:   {ListingSold, ListingDeleted, ListingExpired},
	ListingSold:     {},
	ListingRejected: {},
	ListingDeleted:  {},
	ListingExpired:  {},
}

// CanTransition reports whether a listing may move from one status to
// another. Deletion is allowed from any live status (owner soft delete and
// admin override); deleted itself is terminal.
func CanTransition(from, to ListingStatus) bool {
	if from == ListingDeleted {
		return false
	}
	if to == ListingDeleted {
		return true
	}
	for _, next := range listingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

var (
	ListingCategories   = []string{"Books", "Electronics", "Furniture", "Clothing", "Services", "Other"}
	ListingTypes        = []string{"item", "service"}
	PricingTypes        = []string{"fixed", "bidding", "hourly", "free"}
	ListingConditions   = []string{"New", "Like New", "Good", "Fair", "Poor"}
	VisibilityModes     = []string{"university", "all"}
	ListingExpiryWindow = 30 * 24 * time.Hour
)

type Listing struct {
	gorm.Model
	Title        string        `json:"title" gorm:"type:varchar(100)"`
	Description  string        `json:"description" gorm:"type:varchar(1000)"`
	Category     string        `json:"category" gorm:"type:varchar(20);index"`
	ListingType  string        `json:"listingType" gorm:"type:varchar(10)"`
	PricingType  string        `json:"pricingType" gorm:"type:varchar(10)"`
	Price        *float64      `json:"price"`
	Condition    string        `json:"condition" gorm:"type:varchar(10)"`
	Images       string        `json:"images"` // JSON array of URLs
	Visibility   string        `json:"visibilityMode" gorm:"column:visibility_mode;type:varchar(10);default:'university'"`
	Status       ListingStatus `json:"status" gorm:"type:varchar(10);default:'pending';index"`
	OwnerID      uint          `json:"ownerID" gorm:"index"`
	UniversityID uint          `json:"universityID" gorm:"index"`
	Owner        User          `json:"owner" gorm:"foreignKey:OwnerID;references:ID"`
	University   University    `json:"university" gorm:"foreignKey:UniversityID;references:ID"`
	Bids         []Bid         `json:"bids" gorm:"foreignKey:ListingID;references:ID"`

	ModeratedByID     *uint      `json:"moderatedBy"`
	ModeratedAt       *time.Time `json:"moderatedAt"`
	ModerationMessage string     `json:"moderationMessage" gorm:"type:varchar(500)"`

	ExpiresAt time.Time `json:"expiresAt"`
}

// MarshalJSON converts the Images string column to a real array
func (l *Listing) MarshalJSON() ([]byte, error) {
	type Alias Listing
	aux := &struct {
		Images     []string    `json:"images"`
		Owner      *User       `json:"owner,omitempty"`
		University *University `json:"university,omitempty"`
		*Alias
	}{
		Images: []string{},
		Alias:  (*Alias)(l),
	}

	if l.Images != "" {
		var images []string
		if err := json.Unmarshal([]byte(l.Images), &images); err == nil {
			aux.Images = images
		}
	}

	if l.Owner.ID != 0 {
		aux.Owner = &l.Owner
	}
	if l.University.ID != 0 {
		aux.University = &l.University
	}

	return json.Marshal(aux)
}

func (l *Listing) ImageURLs() []string {
	var images []string
	if l.Images != "" {
		json.Unmarshal([]byte(l.Images), &images)
	}
	return images
}

func (l *Listing) SetImageURLs(urls []string) {
	if urls == nil {
		urls = []string{}
	}
	b, _ := json.Marshal(urls)
	l.Images = string(b)
}

// IsExpired reports whether an active listing passed its expiry window.
func (l *Listing) IsExpired(now time.Time) bool {
	return l.Status == ListingActive && now.After(l.ExpiresAt)
}
