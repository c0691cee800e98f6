package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

var MeetupLocationTypes = []string{"landmark", "building", "outdoorSpace", "library", "foodCourt", "other"}

// MeetupLocation is a university-verified spot students can pick for an
// exchange instead of ad-hoc coordinates.
type MeetupLocation struct {
	gorm.Model
	Name         string     `json:"name" gorm:"type:varchar(100)"`
	Description  string     `json:"description" gorm:"type:varchar(500)"`
	UniversityID uint       `json:"universityID" gorm:"index"`
	University   University `json:"university" gorm:"foreignKey:UniversityID;references:ID"`
	Lng          float64    `json:"lng"`
	Lat          float64    `json:"lat"`
	LocationType string     `json:"locationType" gorm:"type:varchar(20)"`
	IsOfficial   bool       `json:"isOfficial" gorm:"default:false"`
	SafetyRating int        `json:"safetyRating" gorm:"default:3"`
	CreatedByID  *uint      `json:"createdByID"`
	Photos       string     `json:"photos"` // JSON array of URLs
	OpeningHours string     `json:"openingHours"`
}

func (m *MeetupLocation) MarshalJSON() ([]byte, error) {
	type Alias MeetupLocation
	aux := &struct {
		Photos     []string    `json:"photos"`
		University *University `json:"university,omitempty"`
		*Alias
	}{
		Photos: []string{},
		Alias:  (*Alias)(m),
	}

	if m.Photos != "" {
		var photos []string
		if err := json.Unmarshal([]byte(m.Photos), &photos); err == nil {
			aux.Photos = photos
		}
	}
	if m.University.ID != 0 {
		aux.University = &m.University
	}

	return json.Marshal(aux)
}
