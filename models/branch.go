package models

import "time"

// Branch represents the branches table.
type Branch struct {
	BranchID   int        `gorm:"primaryKey;column:branch_id" json:"branch_id"`
	BranchName string     `gorm:"column:branch_name" json:"branch_name"`
	BranchCode string     `gorm:"column:branch_code;unique" json:"branch_code"`
	Address    string     `gorm:"column:address" json:"address"`
	Phone      string     `gorm:"column:phone" json:"phone"`
	IsActive   bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt   time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt   time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Branch) TableName() string {
	return "branches"
}
