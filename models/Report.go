package models

import (
	"time"

	"gorm.io/gorm"
)

var ReportReasons = []string{"inappropriate_content", "scam", "harassment", "false_information", "other"}

type Report struct {
	gorm.Model
	ReporterID uint  `json:"reporterID" gorm:"index"`
	Reporter   User  `json:"reporter" gorm:"foreignKey:ReporterID;references:ID"`
	ReportedID uint  `json:"reportedID" gorm:"index"`
	Reported   User  `json:"reported" gorm:"foreignKey:ReportedID;references:ID"`
	ListingID  *uint `json:"listingID"`

	Reason  string `json:"reason" gorm:"type:varchar(30)"`
	Details string `json:"details" gorm:"type:varchar(500)"`
	Status  string `json:"status" gorm:"type:varchar(10);default:'pending';index"` // pending, resolved, rejected

	ReviewedByID *uint      `json:"reviewedByID"`
	AdminNotes   string     `json:"adminNotes" gorm:"type:varchar(500)"`
	ResolvedAt   *time.Time `json:"resolvedAt"`
}
