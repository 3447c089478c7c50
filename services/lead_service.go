package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"lead-pipeline-api/config"
	"lead-pipeline-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeadService owns the lead lifecycle: creation, assignment, status
// transitions and unassignment. All writes go through explicit command
// inputs rather than partial-field merges.
type LeadService struct {
	db     *gorm.DB
	mailer func(to []string, subject, html string) error
}

func NewLeadService(db *gorm.DB) *LeadService {
	if db == nil {
		db = config.DB
	}
	return &LeadService{db: db, mailer: config.SendMail}
}

// CreateLeadInput carries the fields a new lead is built from.
type CreateLeadInput struct {
	CustomerName  string
	ContactNumber string
	Email         string
	Address       string
	City          string
	Occupation    string
	MonthlyIncome float64
	LeadType      string
	LoanTypes     []string
	LeadSource    string
	BranchID      int
}

// AssignLeadInput is the command for linking a lead to a staff member.
type AssignLeadInput struct {
	LeadID        int
	StaffID       int
	ActingUserID  int
	BankSelection string
}

// StatusUpdateInput is the command for moving a lead through the pipeline.
type StatusUpdateInput struct {
	LeadID          int
	NewStatus       string
	ActingUserID    int
	SanctionAmount  *float64
	SanctionDate    *time.Time
	RejectionReason *string
}

// CreateLead creates a lead in the login status with no assignment. The lead
// source defaults from the creator's role when not supplied. The document
// checklist is seeded from the requirement catalog in the same transaction.
func (s *LeadService) CreateLead(input *CreateLeadInput, creatorID, creatorRoleID int) (*models.Lead, error) {
	if strings.TrimSpace(input.CustomerName) == "" || strings.TrimSpace(input.ContactNumber) == "" {
		return nil, ErrMissingCustomer
	}

	leadType := strings.TrimSpace(input.LeadType)
	loanTypes := make([]string, 0, len(input.LoanTypes))
	for _, lt := range input.LoanTypes {
		if trimmed := strings.TrimSpace(lt); trimmed != "" {
			loanTypes = append(loanTypes, trimmed)
		}
	}
	if leadType == "" && len(loanTypes) > 0 {
		leadType = loanTypes[0]
	}
	if leadType == "" {
		return nil, ErrMissingLoanType
	}

	source := input.LeadSource
	if source == "" {
		source = DefaultLeadSource(creatorRoleID)
	}

	now := time.Now()
	lead := &models.Lead{
		LeadNumber:        generateLeadNumber(),
		CustomerName:      strings.TrimSpace(input.CustomerName),
		ContactNumber:     strings.TrimSpace(input.ContactNumber),
		Email:             strings.TrimSpace(input.Email),
		Address:           input.Address,
		City:              input.City,
		Occupation:        input.Occupation,
		MonthlyIncome:     input.MonthlyIncome,
		LeadType:          leadType,
		LoanTypes:         strings.Join(loanTypes, ","),
		LeadSource:        source,
		ApplicationStatus: models.LeadStatusLogin,
		IsVisibleToStaff:  false,
		BranchID:          input.BranchID,
		CreatedBy:         creatorID,
		CreateAt:          now,
		UpdateAt:          now,
	}

	docs := NewDocumentService(s.db)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(lead).Error; err != nil {
			return fmt.Errorf("failed to create lead: %w", err)
		}
		return docs.SeedChecklist(tx, lead)
	})
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// AssignLeadToStaff links a lead to a staff member and bank. The update is a
// compare-and-swap conditioned on the lead still being unassigned, so two
// managers racing on the same lead cannot both win.
func (s *LeadService) AssignLeadToStaff(input *AssignLeadInput) (*models.Lead, error) {
	if input.StaffID == 0 {
		return nil, ErrNotAssigned
	}
	if strings.TrimSpace(input.BankSelection) == "" {
		return nil, ErrMissingBank
	}

	var lead models.Lead
	if err := s.db.Where("lead_id = ? AND delete_at IS NULL", input.LeadID).First(&lead).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	if lead.IsTerminal() {
		return nil, ErrLeadTerminal
	}
	if lead.IsAssigned() {
		return nil, ErrAlreadyAssigned
	}

	var staff models.User
	if err := s.db.Where("user_id = ? AND is_active = 1 AND delete_at IS NULL", input.StaffID).First(&staff).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"assigned_staff_id":   input.StaffID,
		"assigned_by":         input.ActingUserID,
		"bank_selection":      input.BankSelection,
		"bank_assigned_at":    now,
		"assigned_at":         now,
		"is_visible_to_staff": true,
		"application_status":  models.LeadStatusPending,
		"status_updated_at":   now,
		"update_at":           now,
	}

	// Conditioned on the staff link only: a sent-back lead keeps its pending
	// status and must still be assignable.
	result := s.db.Model(&models.Lead{}).
		Where("lead_id = ? AND assigned_staff_id IS NULL AND delete_at IS NULL", input.LeadID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost the race: someone assigned the lead between the read and the
		// conditional write.
		return nil, ErrAlreadyAssigned
	}

	if oldStatus := lead.ApplicationStatus; oldStatus != models.LeadStatusPending {
		s.recordStatusChange(lead.LeadID, &oldStatus, models.LeadStatusPending, input.ActingUserID, nil)
	}

	if err := s.db.Preload("AssignedStaff").Preload("Branch").
		First(&lead, input.LeadID).Error; err != nil {
		return nil, err
	}

	s.notifyAssignment(&staff, &lead)
	return &lead, nil
}

// UpdateLeadStatus moves a lead through the pipeline. Transitions are checked
// against the transition table; terminal statuses cannot be left. Moving back
// to login clears the assignment and returns the lead to the new bucket.
func (s *LeadService) UpdateLeadStatus(input *StatusUpdateInput) (*models.Lead, error) {
	var lead models.Lead
	if err := s.db.Where("lead_id = ? AND delete_at IS NULL", input.LeadID).First(&lead).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	if err := CanTransition(lead.ApplicationStatus, input.NewStatus); err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"application_status": input.NewStatus,
		"status_updated_at":  now,
		"update_at":          now,
	}
	var reason *string

	switch input.NewStatus {
	case models.LeadStatusLogin:
		updates["assigned_staff_id"] = nil
		updates["assigned_by"] = nil
		updates["is_visible_to_staff"] = false
	case models.LeadStatusPending:
		if !lead.IsAssigned() {
			return nil, ErrNotAssigned
		}
		updates["is_visible_to_staff"] = true
	case models.LeadStatusSanctioned:
		if input.SanctionAmount == nil || *input.SanctionAmount <= 0 || input.SanctionDate == nil {
			return nil, ErrMissingSanction
		}
		updates["sanction_amount"] = *input.SanctionAmount
		updates["sanction_date"] = *input.SanctionDate
	case models.LeadStatusRejected:
		if input.RejectionReason == nil || strings.TrimSpace(*input.RejectionReason) == "" {
			return nil, ErrMissingRejection
		}
		updates["rejection_reason"] = *input.RejectionReason
		reason = input.RejectionReason
	}

	if err := s.db.Model(&models.Lead{}).
		Where("lead_id = ?", lead.LeadID).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	if lead.ApplicationStatus != input.NewStatus {
		oldStatus := lead.ApplicationStatus
		s.recordStatusChange(lead.LeadID, &oldStatus, input.NewStatus, input.ActingUserID, reason)
	}

	if err := s.db.Preload("AssignedStaff").Preload("Branch").
		First(&lead, input.LeadID).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// UnassignLead clears the staff link and visibility without touching the
// application status. Used by the unassigned Kanban column.
func (s *LeadService) UnassignLead(leadID int) (*models.Lead, error) {
	var lead models.Lead
	if err := s.db.Where("lead_id = ? AND delete_at IS NULL", leadID).First(&lead).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&models.Lead{}).
		Where("lead_id = ?", leadID).
		Updates(map[string]interface{}{
			"assigned_staff_id":   nil,
			"assigned_by":         nil,
			"is_visible_to_staff": false,
			"update_at":           time.Now(),
		}).Error; err != nil {
		return nil, err
	}

	if err := s.db.First(&lead, leadID).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// recordStatusChange appends an audit row. Failures are logged and swallowed:
// history must not block the pipeline write that already happened.
func (s *LeadService) recordStatusChange(leadID int, oldStatus *string, newStatus string, changedBy int, reason *string) {
	history := models.LeadStatusHistory{
		LeadID:    leadID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedBy: changedBy,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(&history).Error; err != nil {
		log.Printf("Warning: failed to record status history for lead %d: %v", leadID, err)
	}
}

// notifyAssignment emails the staff member their new lead. Best effort.
func (s *LeadService) notifyAssignment(staff *models.User, lead *models.Lead) {
	if s.mailer == nil || staff.Email == "" {
		return
	}
	bank := ""
	if lead.BankSelection != nil {
		bank = *lead.BankSelection
	}
	subject := fmt.Sprintf("New lead assigned: %s", lead.CustomerName)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Lead <b>%s</b> (%s, %s) has been assigned to you with bank <b>%s</b>.</p>",
		staff.UserFname, lead.LeadNumber, lead.CustomerName, lead.LeadType, bank,
	)
	if err := s.mailer([]string{staff.Email}, subject, body); err != nil {
		log.Printf("Warning: failed to send assignment email for lead %d: %v", lead.LeadID, err)
	}
}

// generateLeadNumber builds a unique external identifier.
// Format: LD-YYYYMMDD-XXXXXXXX
func generateLeadNumber() string {
	dateStr := time.Now().Format("20060102")
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("LD-%s-%s", dateStr, suffix)
}
