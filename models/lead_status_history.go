package models

import "time"

// LeadStatusHistory tracks historical status changes for leads.
type LeadStatusHistory struct {
	HistoryID int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	LeadID    int       `gorm:"column:lead_id" json:"lead_id"`
	OldStatus *string   `gorm:"column:old_status" json:"old_status"`
	NewStatus string    `gorm:"column:new_status" json:"new_status"`
	ChangedBy int       `gorm:"column:changed_by" json:"changed_by"`
	Reason    *string   `gorm:"column:reason" json:"reason"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table for LeadStatusHistory.
func (LeadStatusHistory) TableName() string {
	return "lead_status_history"
}
