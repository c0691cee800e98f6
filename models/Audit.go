package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records moderation actions for later review.
type AuditLog struct {
	gorm.Model
	AdminUserID  uint           `json:"adminUserID" gorm:"index"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resourceType"`
	ResourceID   uint           `json:"resourceID"`
	Before       datatypes.JSON `json:"before"`
	After        datatypes.JSON `json:"after"`
	IPAddress    string         `json:"ipAddress"`
}
