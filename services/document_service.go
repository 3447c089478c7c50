package services

import (
	"fmt"
	"time"

	"lead-pipeline-api/config"
	"lead-pipeline-api/models"

	"gorm.io/gorm"
)

// Document completion labels shown on lead cards and lists.
const (
	DocSummaryNone        = "No Documents"
	DocSummaryComplete    = "Document Complete"
	DocSummaryUnderReview = "Under Review"
)

// DocumentSummary is the derived completion state of a lead's checklist.
type DocumentSummary struct {
	Label    string `json:"label"`
	Total    int    `json:"total"`
	Pending  int    `json:"pending"`
	Provided int    `json:"provided"`
	Verified int    `json:"verified"`
}

// DocumentCompletion computes the completion summary from a document
// checklist. This is the single source of truth for the label; every screen
// reads it from here.
func DocumentCompletion(docs []models.LeadDocument) DocumentSummary {
	summary := DocumentSummary{Total: len(docs)}
	if len(docs) == 0 {
		summary.Label = DocSummaryNone
		return summary
	}

	for _, doc := range docs {
		switch doc.Status {
		case models.DocStatusVerified:
			summary.Verified++
		case models.DocStatusProvided:
			summary.Provided++
		default:
			summary.Pending++
		}
	}

	switch {
	case summary.Verified == summary.Total:
		summary.Label = DocSummaryComplete
	case summary.Pending == 0:
		summary.Label = DocSummaryUnderReview
	default:
		summary.Label = fmt.Sprintf("%d Pending", summary.Pending)
	}
	return summary
}

// DocumentService maintains lead document checklists.
type DocumentService struct {
	db *gorm.DB
}

func NewDocumentService(db *gorm.DB) *DocumentService {
	if db == nil {
		db = config.DB
	}
	return &DocumentService{db: db}
}

// SeedChecklist creates the document rows for a fresh lead from the
// requirement catalog for its lead type. Leads of unknown types simply get an
// empty checklist.
func (s *DocumentService) SeedChecklist(tx *gorm.DB, lead *models.Lead) error {
	var requirements []models.DocumentRequirement
	if err := tx.Where("lead_type = ? AND required = 1 AND delete_at IS NULL", lead.LeadType).
		Order("document_order ASC").
		Find(&requirements).Error; err != nil {
		return fmt.Errorf("failed to load document requirements: %w", err)
	}

	now := time.Now()
	for _, req := range requirements {
		doc := models.LeadDocument{
			LeadID:        lead.LeadID,
			DocumentName:  req.DocumentName,
			Status:        models.DocStatusPending,
			DocumentOrder: req.DocumentOrder,
			CreateAt:      now,
			UpdateAt:      now,
		}
		if err := tx.Create(&doc).Error; err != nil {
			return fmt.Errorf("failed to seed document %q: %w", req.DocumentName, err)
		}
	}
	return nil
}

// SetDocumentStatus moves one checklist entry to a new status.
func (s *DocumentService) SetDocumentStatus(leadID, documentID int, status string) error {
	switch status {
	case models.DocStatusPending, models.DocStatusProvided, models.DocStatusVerified:
	default:
		return fmt.Errorf("unknown document status %q", status)
	}

	result := s.db.Model(&models.LeadDocument{}).
		Where("document_id = ? AND lead_id = ? AND delete_at IS NULL", documentID, leadID).
		Updates(map[string]interface{}{
			"status":    status,
			"update_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("document %d not found for lead %d", documentID, leadID)
	}
	return nil
}

// ListDocuments returns a lead's checklist in catalog order.
func (s *DocumentService) ListDocuments(leadID int) ([]models.LeadDocument, error) {
	var docs []models.LeadDocument
	err := s.db.Where("lead_id = ? AND delete_at IS NULL", leadID).
		Order("document_order ASC").
		Find(&docs).Error
	return docs, err
}
