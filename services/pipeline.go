package services

import (
	"errors"
	"fmt"

	"lead-pipeline-api/models"
)

// Pipeline buckets the dashboards group leads into. A lead is in at most one
// of new/unassigned; assigned may overlap with the terminal buckets because a
// lead keeps its staff attribution after sanction or rejection.
const (
	BucketNew        = "new"
	BucketAssigned   = "assigned"
	BucketSanctioned = "sanctioned"
	BucketRejected   = "rejected"
	BucketUnassigned = "unassigned"
)

// Pipeline rule violations returned by the lead service.
var (
	ErrLeadNotFound     = errors.New("lead not found")
	ErrLeadTerminal     = errors.New("lead is in a terminal status")
	ErrAlreadyAssigned  = errors.New("lead is already assigned")
	ErrNotAssigned      = errors.New("lead has no assigned staff")
	ErrStaffNotFound    = errors.New("staff member not found or inactive")
	ErrInvalidStatus    = errors.New("unknown application status")
	ErrMissingSanction  = errors.New("sanction amount and date are required")
	ErrMissingRejection = errors.New("rejection reason is required")
	ErrMissingLoanType  = errors.New("at least one loan type is required")
	ErrMissingCustomer  = errors.New("customer name and contact number are required")
	ErrMissingBank      = errors.New("bank selection is required")
)

// TransitionError reports an illegal pipeline move.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal status transition from %s to %s", e.From, e.To)
}

// leadTransitions defines the legal pipeline moves. Terminal statuses have no
// exits: reverting a sanctioned or rejected lead is rejected outright.
var leadTransitions = map[string]map[string]bool{
	models.LeadStatusLogin: {
		models.LeadStatusPending:  true,
		models.LeadStatusRejected: true,
	},
	models.LeadStatusPending: {
		models.LeadStatusLogin:      true, // send back to the new bucket
		models.LeadStatusSanctioned: true,
		models.LeadStatusRejected:   true,
	},
	models.LeadStatusSanctioned: {},
	models.LeadStatusRejected:   {},
}

// ValidStatus reports whether s names a known application status.
func ValidStatus(s string) bool {
	switch s {
	case models.LeadStatusLogin, models.LeadStatusPending,
		models.LeadStatusSanctioned, models.LeadStatusRejected:
		return true
	}
	return false
}

// CanTransition checks the transition table. Same-status moves are allowed so
// repeated drops on the current Kanban column are harmless.
func CanTransition(from, to string) error {
	if !ValidStatus(to) {
		return ErrInvalidStatus
	}
	if from == to {
		return nil
	}
	next, ok := leadTransitions[from]
	if !ok {
		return ErrInvalidStatus
	}
	if !next[to] {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

// Classify places a lead into its pipeline bucket for the Kanban board.
// new and unassigned are disjoint by construction: new requires status login,
// unassigned requires any other status with no staff attached.
func Classify(lead *models.Lead) string {
	if !lead.IsAssigned() {
		if lead.ApplicationStatus == models.LeadStatusLogin {
			return BucketNew
		}
		return BucketUnassigned
	}
	switch lead.ApplicationStatus {
	case models.LeadStatusSanctioned:
		return BucketSanctioned
	case models.LeadStatusRejected:
		return BucketRejected
	}
	return BucketAssigned
}

// InBucket reports whether a lead belongs to the named bucket. Unlike
// Classify, this keeps the overlap the list screens rely on: an assigned lead
// that reached a terminal status matches both assigned and its terminal
// bucket.
func InBucket(lead *models.Lead, bucket string) bool {
	switch bucket {
	case BucketNew:
		return lead.ApplicationStatus == models.LeadStatusLogin && !lead.IsAssigned()
	case BucketUnassigned:
		return lead.ApplicationStatus != models.LeadStatusLogin && !lead.IsAssigned()
	case BucketAssigned:
		return lead.IsAssigned()
	case BucketSanctioned:
		return lead.ApplicationStatus == models.LeadStatusSanctioned
	case BucketRejected:
		return lead.ApplicationStatus == models.LeadStatusRejected
	}
	return false
}

// DefaultLeadSource picks the source recorded when the caller did not supply
// one, based on who created the lead.
func DefaultLeadSource(creatorRoleID int) string {
	if creatorRoleID == models.RoleStaff {
		return models.LeadSourceStaffCreated
	}
	return models.LeadSourceOwnerCreated
}
