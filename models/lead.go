package models

import "time"

// Application statuses stored in leads.application_status.
const (
	LeadStatusLogin      = "login"      // freshly created, sits in the "new" bucket
	LeadStatusPending    = "pending"    // assigned and in progress
	LeadStatusSanctioned = "sanctioned" // terminal
	LeadStatusRejected   = "rejected"   // terminal
)

// Lead sources stored in leads.lead_source.
const (
	LeadSourceWebsite      = "website"
	LeadSourceSocialMedia  = "social_media"
	LeadSourceWalkIn       = "walk_in"
	LeadSourceDataSheet    = "data_sheet"
	LeadSourceStaffCreated = "staff_created"
	LeadSourceOwnerCreated = "owner_created"
	LeadSourceOther        = "other"
)

// Document statuses stored in lead_documents.status.
const (
	DocStatusPending  = "pending"
	DocStatusProvided = "provided"
	DocStatusVerified = "verified"
)

// Lead represents the leads table - one prospective loan applicant tracked
// from intake through sanction or rejection.
type Lead struct {
	LeadID        int     `gorm:"primaryKey;column:lead_id" json:"lead_id"`
	LeadNumber    string  `gorm:"column:lead_number;unique" json:"lead_number"`
	CustomerName  string  `gorm:"column:customer_name" json:"customer_name"`
	ContactNumber string  `gorm:"column:contact_number" json:"contact_number"`
	Email         string  `gorm:"column:email" json:"email"`
	Address       string  `gorm:"column:address" json:"address"`
	City          string  `gorm:"column:city" json:"city"`
	Occupation    string  `gorm:"column:occupation" json:"occupation"`
	MonthlyIncome float64 `gorm:"column:monthly_income" json:"monthly_income"`

	LeadType   string `gorm:"column:lead_type" json:"lead_type"`
	LoanTypes  string `gorm:"column:loan_types" json:"loan_types"` // comma separated for multi-product leads
	LeadSource string `gorm:"column:lead_source" json:"lead_source"`

	ApplicationStatus string  `gorm:"column:application_status" json:"application_status"`
	AssignedStaffID   *int    `gorm:"column:assigned_staff_id" json:"assigned_staff_id,omitempty"`
	IsVisibleToStaff  bool    `gorm:"column:is_visible_to_staff" json:"is_visible_to_staff"`
	BankSelection     *string `gorm:"column:bank_selection" json:"bank_selection,omitempty"`
	BranchID          int     `gorm:"column:branch_id" json:"branch_id"`
	CreatedBy         int     `gorm:"column:created_by" json:"created_by"`
	AssignedBy        *int    `gorm:"column:assigned_by" json:"assigned_by,omitempty"`

	SanctionAmount     *float64   `gorm:"column:sanction_amount" json:"sanction_amount,omitempty"`
	SanctionDate       *time.Time `gorm:"column:sanction_date" json:"sanction_date,omitempty"`
	DisbursementStatus *string    `gorm:"column:disbursement_status" json:"disbursement_status,omitempty"`
	RejectionReason    *string    `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`

	BankAssignedAt  *time.Time `gorm:"column:bank_assigned_at" json:"bank_assigned_at,omitempty"`
	StatusUpdatedAt *time.Time `gorm:"column:status_updated_at" json:"status_updated_at,omitempty"`
	AssignedAt      *time.Time `gorm:"column:assigned_at" json:"assigned_at,omitempty"`
	CreateAt        time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt        time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Branch        Branch         `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	AssignedStaff *User          `gorm:"foreignKey:AssignedStaffID" json:"assigned_staff,omitempty"`
	Creator       User           `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Documents     []LeadDocument `gorm:"foreignKey:LeadID" json:"documents,omitempty"`
}

// LeadDocument is one entry of a lead's document checklist.
type LeadDocument struct {
	DocumentID    int        `gorm:"primaryKey;column:document_id" json:"document_id"`
	LeadID        int        `gorm:"column:lead_id" json:"lead_id"`
	DocumentName  string     `gorm:"column:document_name" json:"document_name"`
	Status        string     `gorm:"column:status" json:"status"`
	DocumentOrder int        `gorm:"column:document_order" json:"document_order"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt      time.Time  `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (Lead) TableName() string {
	return "leads"
}

func (LeadDocument) TableName() string {
	return "lead_documents"
}

// IsTerminal reports whether the lead reached a final pipeline state.
func (l *Lead) IsTerminal() bool {
	return l.ApplicationStatus == LeadStatusSanctioned || l.ApplicationStatus == LeadStatusRejected
}

// IsAssigned reports whether the lead is linked to a staff member.
func (l *Lead) IsAssigned() bool {
	return l.AssignedStaffID != nil && *l.AssignedStaffID != 0
}
