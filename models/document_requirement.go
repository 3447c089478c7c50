package models

import "time"

// DocumentRequirement is the static catalog mapping a loan product to the
// documents a lead of that type must collect. New leads get their checklist
// seeded from the active rows for their lead_type.
type DocumentRequirement struct {
	RequirementID int        `gorm:"primaryKey;column:requirement_id" json:"requirement_id"`
	LeadType      string     `gorm:"column:lead_type" json:"lead_type"`
	DocumentName  string     `gorm:"column:document_name" json:"document_name"`
	Required      bool       `gorm:"column:required" json:"required"`
	DocumentOrder int        `gorm:"column:document_order" json:"document_order"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt      time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (DocumentRequirement) TableName() string {
	return "document_requirements"
}
