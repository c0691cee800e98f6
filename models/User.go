package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent         = "user"
	RoleUniversityAdmin = "university-admin"
	RoleAdmin           = "admin"
)

var UserPrograms = []string{"Undergraduate", "Graduate", "Postgraduate", "PhD"}

type User struct {
	gorm.Model
	FirstName   string `json:"firstName" gorm:"type:varchar(50)"`
	LastName    string `json:"lastName" gorm:"type:varchar(50)"`
	Email       string `json:"email" gorm:"uniqueIndex"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
	DateOfBirth string `json:"dateOfBirth"`

	// Academic information; university is fixed at registration from the
	// email domain and never client-chosen.
	UniversityID   uint       `json:"universityID" gorm:"index"`
	University     University `json:"university" gorm:"foreignKey:UniversityID;references:ID"`
	StudentID      string     `json:"studentId"`
	Department     string     `json:"department"`
	Program        string     `json:"program" gorm:"type:varchar(20);default:'Undergraduate'"`
	YearOfStudy    int        `json:"yearOfStudy"`
	GraduationYear int        `json:"graduationYear"`

	IsEmailVerified    bool   `json:"isEmailVerified" gorm:"default:false"`
	IsProfileComplete  bool   `json:"isProfileComplete" gorm:"default:false"`
	VerificationStatus string `json:"verificationStatus" gorm:"type:varchar(10);default:'pending'"` // pending, verified, rejected

	ProfilePicture string `json:"profilePicture"`
	Bio            string `json:"bio" gorm:"type:varchar(500)"`

	IsActive  *bool      `json:"isActive" gorm:"default:true"`
	LastLogin *time.Time `json:"lastLogin"`

	Role string `json:"role" gorm:"type:varchar(20);default:user;index"` // user, university-admin, admin
	// Set only for university-admins; the university they moderate.
	AdminUniversityID *uint `json:"adminUniversityID"`

	EmailVerificationToken  string     `json:"-"`
	EmailVerificationExpire *time.Time `json:"-"`
	ResetPasswordToken      string     `json:"-"`
	ResetPasswordExpire     *time.Time `json:"-"`

	Listings []Listing `json:"listings,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
}

// MarshalJSON hides the password hash and embeds the university only when
// it was preloaded.
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		Password   string      `json:"password,omitempty"`
		University *University `json:"university,omitempty"`
		Listings   []Listing   `json:"listings,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(u),
	}

	if u.University.ID != 0 {
		aux.University = &u.University
	}
	if len(u.Listings) > 0 {
		aux.Listings = u.Listings
	}

	return json.Marshal(aux)
}

// CheckProfileCompletion recomputes IsProfileComplete from the fields
// registration requires.
func (u *User) CheckProfileCompletion() bool {
	complete := u.FirstName != "" && u.LastName != "" && u.Email != "" &&
		u.PhoneNumber != "" && u.DateOfBirth != "" && u.UniversityID != 0 &&
		u.StudentID != "" && u.Department != "" && u.Program != "" &&
		u.YearOfStudy > 0 && u.GraduationYear > 0
	u.IsProfileComplete = complete
	return complete
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
