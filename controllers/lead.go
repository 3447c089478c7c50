package controllers

import (
	"errors"
	"lead-pipeline-api/config"
	"lead-pipeline-api/models"
	"lead-pipeline-api/services"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// leadView is a lead plus its derived pipeline fields.
type leadView struct {
	models.Lead
	Bucket             string                   `json:"bucket"`
	DocumentCompletion services.DocumentSummary `json:"document_completion"`
}

func toLeadView(lead models.Lead) leadView {
	return leadView{
		Lead:               lead,
		Bucket:             services.Classify(&lead),
		DocumentCompletion: services.DocumentCompletion(lead.Documents),
	}
}

// scopeLeadQuery narrows a lead query to what the caller may see: staff get
// only their own visible queue, branch heads their branch, owners everything.
func scopeLeadQuery(c *gin.Context, query *gorm.DB) *gorm.DB {
	roleID, _ := c.Get("roleID")
	switch roleID.(int) {
	case models.RoleStaff:
		userID, _ := c.Get("userID")
		return query.Where("assigned_staff_id = ? AND is_visible_to_staff = 1", userID)
	case models.RoleBranchHead:
		if branchID, exists := c.Get("branchID"); exists {
			return query.Where("branch_id = ?", branchID)
		}
	}
	return query
}

// GetLeads returns leads scoped to the caller's role, with optional filters.
func GetLeads(c *gin.Context) {
	var leads []models.Lead
	query := config.DB.Preload("Branch").Preload("AssignedStaff").Preload("Documents").
		Where("leads.delete_at IS NULL")

	query = scopeLeadQuery(c, query)

	if status := c.Query("status"); status != "" {
		query = query.Where("application_status = ?", status)
	}
	if source := c.Query("source"); source != "" {
		query = query.Where("lead_source = ?", source)
	}
	if branch := c.Query("branch_id"); branch != "" {
		query = query.Where("branch_id = ?", branch)
	}

	if err := query.Order("create_at DESC").Find(&leads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leads"})
		return
	}

	// Bucket filtering happens after the fetch: assigned overlaps with the
	// terminal buckets, so it cannot be expressed as one column predicate.
	bucket := c.Query("bucket")
	views := make([]leadView, 0, len(leads))
	for _, lead := range leads {
		if bucket != "" && !services.InBucket(&lead, bucket) {
			continue
		}
		views = append(views, toLeadView(lead))
	}

	c.JSON(http.StatusOK, gin.H{
		"leads": views,
		"total": len(views),
	})
}

// GetLead returns a single lead by ID
func GetLead(c *gin.Context) {
	id := c.Param("id")

	var lead models.Lead
	query := config.DB.Preload("Branch").Preload("AssignedStaff").Preload("Creator").
		Preload("Documents").
		Where("lead_id = ? AND leads.delete_at IS NULL", id)
	query = scopeLeadQuery(c, query)

	if err := query.First(&lead).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lead": toLeadView(lead),
	})
}

// CreateLead creates a new lead in the login status
func CreateLead(c *gin.Context) {
	type CreateLeadRequest struct {
		CustomerName  string   `json:"customer_name" binding:"required"`
		ContactNumber string   `json:"contact_number" binding:"required"`
		Email         string   `json:"email"`
		Address       string   `json:"address"`
		City          string   `json:"city"`
		Occupation    string   `json:"occupation"`
		MonthlyIncome float64  `json:"monthly_income"`
		LeadType      string   `json:"lead_type"`
		LoanTypes     []string `json:"loan_types"`
		LeadSource    string   `json:"lead_source"`
		BranchID      int      `json:"branch_id"`
	}

	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	// Staff and branch heads create leads in their own branch
	branchID := req.BranchID
	if ctxBranch, exists := c.Get("branchID"); exists && roleID.(int) != models.RoleOwner {
		branchID = ctxBranch.(int)
	}
	if branchID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "branch_id is required"})
		return
	}

	svc := services.NewLeadService(config.DB)
	lead, err := svc.CreateLead(&services.CreateLeadInput{
		CustomerName:  req.CustomerName,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		Address:       req.Address,
		City:          req.City,
		Occupation:    req.Occupation,
		MonthlyIncome: req.MonthlyIncome,
		LeadType:      req.LeadType,
		LoanTypes:     req.LoanTypes,
		LeadSource:    req.LeadSource,
		BranchID:      branchID,
	}, userID.(int), roleID.(int))
	if err != nil {
		c.JSON(leadErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Lead created successfully",
		"lead":    toLeadView(*lead),
	})
}

// AssignLead assigns a lead to a staff member with a bank selection
func AssignLead(c *gin.Context) {
	leadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead id"})
		return
	}

	type AssignRequest struct {
		StaffID       int    `json:"staff_id" binding:"required"`
		BankSelection string `json:"bank_selection" binding:"required"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	svc := services.NewLeadService(config.DB)
	lead, err := svc.AssignLeadToStaff(&services.AssignLeadInput{
		LeadID:        leadID,
		StaffID:       req.StaffID,
		ActingUserID:  userID.(int),
		BankSelection: req.BankSelection,
	})
	if err != nil {
		c.JSON(leadErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Lead assigned successfully",
		"lead":    toLeadView(*lead),
	})
}

// UnassignLead sends a lead back to the unassigned pool without changing
// its application status
func UnassignLead(c *gin.Context) {
	leadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead id"})
		return
	}

	svc := services.NewLeadService(config.DB)
	lead, err := svc.UnassignLead(leadID)
	if err != nil {
		c.JSON(leadErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Lead unassigned",
		"lead":    toLeadView(*lead),
	})
}

// UpdateLeadStatus moves a lead through the pipeline
func UpdateLeadStatus(c *gin.Context) {
	leadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead id"})
		return
	}

	type StatusRequest struct {
		Status          string     `json:"status" binding:"required"`
		SanctionAmount  *float64   `json:"sanction_amount"`
		SanctionDate    *time.Time `json:"sanction_date"`
		RejectionReason *string    `json:"rejection_reason"`
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	svc := services.NewLeadService(config.DB)
	lead, err := svc.UpdateLeadStatus(&services.StatusUpdateInput{
		LeadID:          leadID,
		NewStatus:       req.Status,
		ActingUserID:    userID.(int),
		SanctionAmount:  req.SanctionAmount,
		SanctionDate:    req.SanctionDate,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		c.JSON(leadErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Status updated",
		"lead":    toLeadView(*lead),
	})
}

// GetLeadBoard returns the Kanban view: leads grouped by pipeline bucket
func GetLeadBoard(c *gin.Context) {
	var leads []models.Lead
	query := config.DB.Preload("Branch").Preload("AssignedStaff").Preload("Documents").
		Where("leads.delete_at IS NULL")
	query = scopeLeadQuery(c, query)

	if branch := c.Query("branch_id"); branch != "" {
		query = query.Where("branch_id = ?", branch)
	}

	if err := query.Order("create_at DESC").Find(&leads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leads"})
		return
	}

	columns := map[string][]leadView{
		services.BucketNew:        {},
		services.BucketAssigned:   {},
		services.BucketSanctioned: {},
		services.BucketRejected:   {},
		services.BucketUnassigned: {},
	}
	for _, lead := range leads {
		bucket := services.Classify(&lead)
		columns[bucket] = append(columns[bucket], toLeadView(lead))
	}

	c.JSON(http.StatusOK, gin.H{
		"board": columns,
		"total": len(leads),
	})
}

// UpdateLeadDocument sets one checklist document's status
func UpdateLeadDocument(c *gin.Context) {
	leadID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead id"})
		return
	}
	docID, err := strconv.Atoi(c.Param("document_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document id"})
		return
	}

	type DocumentRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	docs := services.NewDocumentService(config.DB)
	if err := docs.SetDocumentStatus(leadID, docID, req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checklist, err := docs.ListDocuments(leadID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":             "Document updated",
		"documents":           checklist,
		"document_completion": services.DocumentCompletion(checklist),
	})
}

// leadErrorStatus maps pipeline errors to HTTP status codes
func leadErrorStatus(err error) int {
	var transition *services.TransitionError
	switch {
	case errors.Is(err, services.ErrLeadNotFound),
		errors.Is(err, services.ErrStaffNotFound):
		return http.StatusNotFound
	case errors.As(err, &transition),
		errors.Is(err, services.ErrLeadTerminal),
		errors.Is(err, services.ErrAlreadyAssigned):
		return http.StatusConflict
	case errors.Is(err, services.ErrNotAssigned),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrMissingSanction),
		errors.Is(err, services.ErrMissingRejection),
		errors.Is(err, services.ErrMissingLoanType),
		errors.Is(err, services.ErrMissingCustomer),
		errors.Is(err, services.ErrMissingBank):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
