package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"

	"lead-pipeline-api/models"
)

var leadColumns = []string{
	"lead_id", "lead_number", "customer_name", "contact_number", "lead_type",
	"application_status", "assigned_staff_id", "is_visible_to_staff", "branch_id",
}

func loginLeadRow(id int64) []driver.Value {
	return []driver.Value{
		id, "LD-20260901-ABCD1234", "Asha Verma", "9812345678", "Home Loan",
		"login", nil, int64(0), int64(1),
	}
}

func TestAssignLeadToStaffSendsNotification(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `leads`"),
			columns: leadColumns,
			rows:    [][]driver.Value{loginLeadRow(7)},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `users`"),
			columns: []string{"user_id", "user_fname", "email", "role_id", "is_active"},
			rows:    [][]driver.Value{{int64(5), "Ravi", "ravi@example.com", int64(1), int64(1)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `leads` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `lead_status_history`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `leads`"),
			columns: append(append([]string{}, leadColumns...), "bank_selection"),
			rows: [][]driver.Value{{
				int64(7), "LD-20260901-ABCD1234", "Asha Verma", "9812345678", "Home Loan",
				"pending", int64(5), int64(1), int64(1), "HDFC Bank",
			}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `users`"),
			columns: []string{"user_id", "user_fname", "email"},
			rows:    [][]driver.Value{{int64(5), "Ravi", "ravi@example.com"}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `branches`"),
			columns: []string{"branch_id", "branch_name"},
			rows:    [][]driver.Value{{int64(1), "Head Office"}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	var sentTo []string
	var sentSubject string
	svc := &LeadService{db: db, mailer: func(to []string, subject, html string) error {
		sentTo = to
		sentSubject = subject
		return nil
	}}

	lead, err := svc.AssignLeadToStaff(&AssignLeadInput{
		LeadID:        7,
		StaffID:       5,
		ActingUserID:  2,
		BankSelection: "HDFC Bank",
	})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	if lead.ApplicationStatus != models.LeadStatusPending {
		t.Fatalf("expected pending status, got %s", lead.ApplicationStatus)
	}
	if !lead.IsAssigned() || *lead.AssignedStaffID != 5 {
		t.Fatalf("expected lead assigned to staff 5, got %+v", lead.AssignedStaffID)
	}
	if !lead.IsVisibleToStaff {
		t.Fatalf("expected lead visible to staff after assignment")
	}
	if len(sentTo) != 1 || sentTo[0] != "ravi@example.com" {
		t.Fatalf("expected notification to ravi@example.com, got %v", sentTo)
	}
	if !strings.Contains(sentSubject, "Asha Verma") {
		t.Fatalf("expected customer name in subject, got %q", sentSubject)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestAssignLeadToStaffLosesRace(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `leads`"),
			columns: leadColumns,
			rows:    [][]driver.Value{loginLeadRow(7)},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `users`"),
			columns: []string{"user_id", "user_fname", "email", "role_id", "is_active"},
			rows:    [][]driver.Value{{int64(5), "Ravi", "ravi@example.com", int64(1), int64(1)}},
		},
		{
			// A concurrent writer took the lead between the read and the
			// conditional update: zero rows match the compare-and-swap.
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `leads` SET"),
			result:  scriptedResult{rowsAffected: 0},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := &LeadService{db: db}
	_, err := svc.AssignLeadToStaff(&AssignLeadInput{
		LeadID:        7,
		StaffID:       5,
		ActingUserID:  2,
		BankSelection: "HDFC Bank",
	})
	if !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestAssignLeadToStaffReassignsUnassignedLead(t *testing.T) {
	// A lead that was sent back keeps its pending status with no staff; the
	// conditional update must match on the empty staff link alone.
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `leads`"),
			columns: leadColumns,
			rows: [][]driver.Value{{
				int64(7), "LD-20260901-ABCD1234", "Asha Verma", "9812345678", "Home Loan",
				"pending", nil, int64(0), int64(1),
			}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `users`"),
			columns: []string{"user_id", "user_fname", "email", "role_id", "is_active"},
			rows:    [][]driver.Value{{int64(5), "Ravi", "ravi@example.com", int64(1), int64(1)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `leads` SET .* WHERE lead_id = \\? AND assigned_staff_id IS NULL AND delete_at IS NULL"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `leads`"),
			columns: leadColumns,
			rows: [][]driver.Value{{
				int64(7), "LD-20260901-ABCD1234", "Asha Verma", "9812345678", "Home Loan",
				"pending", int64(5), int64(1), int64(1),
			}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `users`"),
			columns: []string{"user_id", "user_fname", "email"},
			rows:    [][]driver.Value{{int64(5), "Ravi", "ravi@example.com"}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `branches`"),
			columns: []string{"branch_id", "branch_name"},
			rows:    [][]driver.Value{{int64(1), "Head Office"}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := &LeadService{db: db}
	lead, err := svc.AssignLeadToStaff(&AssignLeadInput{
		LeadID:        7,
		StaffID:       5,
		ActingUserID:  2,
		BankSelection: "HDFC Bank",
	})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	if !lead.IsAssigned() || *lead.AssignedStaffID != 5 {
		t.Fatalf("expected lead assigned to staff 5, got %+v", lead.AssignedStaffID)
	}
	if lead.ApplicationStatus != models.LeadStatusPending {
		t.Fatalf("expected pending status, got %s", lead.ApplicationStatus)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestAssignLeadToStaffStaffNotFound(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `leads`"),
			columns: leadColumns,
			rows:    [][]driver.Value{loginLeadRow(7)},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `users`"),
			columns: []string{"user_id", "user_fname", "email", "role_id", "is_active"},
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := &LeadService{db: db}
	_, err := svc.AssignLeadToStaff(&AssignLeadInput{
		LeadID:        7,
		StaffID:       99,
		ActingUserID:  2,
		BankSelection: "HDFC Bank",
	})
	if !errors.Is(err, ErrStaffNotFound) {
		t.Fatalf("expected ErrStaffNotFound, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestAssignLeadToStaffAlreadyAssigned(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `leads`"),
			columns: leadColumns,
			rows: [][]driver.Value{{
				int64(7), "LD-20260901-ABCD1234", "Asha Verma", "9812345678", "Home Loan",
				"pending", int64(9), int64(1), int64(1),
			}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := &LeadService{db: db}
	_, err := svc.AssignLeadToStaff(&AssignLeadInput{
		LeadID:        7,
		StaffID:       5,
		ActingUserID:  2,
		BankSelection: "HDFC Bank",
	})
	if !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestAssignLeadToStaffRequiresBank(t *testing.T) {
	svc := &LeadService{}
	_, err := svc.AssignLeadToStaff(&AssignLeadInput{LeadID: 7, StaffID: 5, ActingUserID: 2})
	if !errors.Is(err, ErrMissingBank) {
		t.Fatalf("expected ErrMissingBank, got %v", err)
	}
}

func TestUpdateLeadStatusRejectsTerminalRevert(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `leads`"),
			columns: leadColumns,
			rows: [][]driver.Value{{
				int64(7), "LD-20260901-ABCD1234", "Asha Verma", "9812345678", "Home Loan",
				"sanctioned", int64(9), int64(1), int64(1),
			}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := &LeadService{db: db}
	_, err := svc.UpdateLeadStatus(&StatusUpdateInput{
		LeadID:       7,
		NewStatus:    models.LeadStatusLogin,
		ActingUserID: 2,
	})

	var transition *TransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if transition.From != models.LeadStatusSanctioned || transition.To != models.LeadStatusLogin {
		t.Fatalf("unexpected transition error: %+v", transition)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestUpdateLeadStatusRejectedRequiresReason(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `leads`"),
			columns: leadColumns,
			rows: [][]driver.Value{{
				int64(7), "LD-20260901-ABCD1234", "Asha Verma", "9812345678", "Home Loan",
				"pending", int64(9), int64(1), int64(1),
			}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := &LeadService{db: db}
	_, err := svc.UpdateLeadStatus(&StatusUpdateInput{
		LeadID:       7,
		NewStatus:    models.LeadStatusRejected,
		ActingUserID: 2,
	})
	if !errors.Is(err, ErrMissingRejection) {
		t.Fatalf("expected ErrMissingRejection, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestUnassignLeadNotFound(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `leads`"),
			columns: leadColumns,
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := &LeadService{db: db}
	_, err := svc.UnassignLead(42)
	if !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestUnassignLeadKeepsStatus(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `leads`"),
			columns: leadColumns,
			rows: [][]driver.Value{{
				int64(7), "LD-20260901-ABCD1234", "Asha Verma", "9812345678", "Home Loan",
				"pending", int64(9), int64(1), int64(1),
			}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `leads` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `leads`"),
			columns: leadColumns,
			rows: [][]driver.Value{{
				int64(7), "LD-20260901-ABCD1234", "Asha Verma", "9812345678", "Home Loan",
				"pending", nil, int64(0), int64(1),
			}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := &LeadService{db: db}
	lead, err := svc.UnassignLead(7)
	if err != nil {
		t.Fatalf("unassign failed: %v", err)
	}

	if lead.IsAssigned() {
		t.Fatalf("expected lead unassigned, got staff %v", lead.AssignedStaffID)
	}
	if lead.IsVisibleToStaff {
		t.Fatalf("expected lead hidden from staff after unassign")
	}
	if lead.ApplicationStatus != models.LeadStatusPending {
		t.Fatalf("expected status untouched, got %s", lead.ApplicationStatus)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestCreateLeadValidation(t *testing.T) {
	svc := &LeadService{}

	if _, err := svc.CreateLead(&CreateLeadInput{ContactNumber: "9812345678"}, 1, models.RoleStaff); !errors.Is(err, ErrMissingCustomer) {
		t.Fatalf("expected ErrMissingCustomer, got %v", err)
	}

	if _, err := svc.CreateLead(&CreateLeadInput{
		CustomerName:  "Asha Verma",
		ContactNumber: "9812345678",
	}, 1, models.RoleStaff); !errors.Is(err, ErrMissingLoanType) {
		t.Fatalf("expected ErrMissingLoanType, got %v", err)
	}
}
