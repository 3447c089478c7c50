package services

import (
	"time"

	"lead-pipeline-api/config"
	"lead-pipeline-api/models"

	"gorm.io/gorm"
)

// Performance is the monthly scorecard for one staff member or branch.
type Performance struct {
	EntityID        int     `json:"entity_id"`
	EntityName      string  `json:"entity_name"`
	Month           int     `json:"month"`
	Year            int     `json:"year"`
	LeadsCreated    int64   `json:"leads_created"`
	FilesAssigned   int64   `json:"files_assigned"`
	FilesSanctioned int64   `json:"files_sanctioned"`
	FilesRejected   int64   `json:"files_rejected"`
	ConversionRate  float64 `json:"conversion_rate"`
}

// ConversionRate is sanctioned over assigned as a percentage, defined as 0
// when nothing was assigned.
func ConversionRate(sanctioned, assigned int64) float64 {
	if assigned == 0 {
		return 0
	}
	return float64(sanctioned) / float64(assigned) * 100
}

// PerformanceService recomputes scorecards from the lead collection on every
// request; there is no incremental maintenance.
type PerformanceService struct {
	db *gorm.DB
}

func NewPerformanceService(db *gorm.DB) *PerformanceService {
	if db == nil {
		db = config.DB
	}
	return &PerformanceService{db: db}
}

func monthRange(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0)
}

// StaffPerformance folds the month's leads for one staff member.
func (s *PerformanceService) StaffPerformance(staffID, month, year int) (*Performance, error) {
	start, end := monthRange(month, year)
	perf := &Performance{EntityID: staffID, Month: month, Year: year}

	var staff models.User
	if err := s.db.Where("user_id = ?", staffID).First(&staff).Error; err == nil {
		perf.EntityName = staff.FullName()
	}

	if err := s.db.Model(&models.Lead{}).
		Where("created_by = ? AND create_at >= ? AND create_at < ? AND delete_at IS NULL", staffID, start, end).
		Count(&perf.LeadsCreated).Error; err != nil {
		return nil, err
	}

	// All four counts share the create_at window, so a lead created in one
	// month and assigned in the next still scores in its creation month.
	if err := s.db.Model(&models.Lead{}).
		Where("assigned_staff_id = ? AND create_at >= ? AND create_at < ? AND delete_at IS NULL", staffID, start, end).
		Count(&perf.FilesAssigned).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Lead{}).
		Where("assigned_staff_id = ? AND create_at >= ? AND create_at < ? AND application_status = ? AND delete_at IS NULL",
			staffID, start, end, models.LeadStatusSanctioned).
		Count(&perf.FilesSanctioned).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Lead{}).
		Where("assigned_staff_id = ? AND create_at >= ? AND create_at < ? AND application_status = ? AND delete_at IS NULL",
			staffID, start, end, models.LeadStatusRejected).
		Count(&perf.FilesRejected).Error; err != nil {
		return nil, err
	}

	perf.ConversionRate = ConversionRate(perf.FilesSanctioned, perf.FilesAssigned)
	return perf, nil
}

// BranchPerformance folds the month's leads for one branch.
func (s *PerformanceService) BranchPerformance(branchID, month, year int) (*Performance, error) {
	start, end := monthRange(month, year)
	perf := &Performance{EntityID: branchID, Month: month, Year: year}

	var branch models.Branch
	if err := s.db.Where("branch_id = ?", branchID).First(&branch).Error; err == nil {
		perf.EntityName = branch.BranchName
	}

	if err := s.db.Model(&models.Lead{}).
		Where("branch_id = ? AND create_at >= ? AND create_at < ? AND delete_at IS NULL", branchID, start, end).
		Count(&perf.LeadsCreated).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Lead{}).
		Where("branch_id = ? AND assigned_staff_id IS NOT NULL AND create_at >= ? AND create_at < ? AND delete_at IS NULL",
			branchID, start, end).
		Count(&perf.FilesAssigned).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Lead{}).
		Where("branch_id = ? AND create_at >= ? AND create_at < ? AND application_status = ? AND delete_at IS NULL",
			branchID, start, end, models.LeadStatusSanctioned).
		Count(&perf.FilesSanctioned).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Lead{}).
		Where("branch_id = ? AND create_at >= ? AND create_at < ? AND application_status = ? AND delete_at IS NULL",
			branchID, start, end, models.LeadStatusRejected).
		Count(&perf.FilesRejected).Error; err != nil {
		return nil, err
	}

	perf.ConversionRate = ConversionRate(perf.FilesSanctioned, perf.FilesAssigned)
	return perf, nil
}

// AllStaffPerformance builds scorecards for every active staff member,
// optionally limited to one branch.
func (s *PerformanceService) AllStaffPerformance(branchID *int, month, year int) ([]Performance, error) {
	q := s.db.Where("role_id = ? AND is_active = 1 AND delete_at IS NULL", models.RoleStaff)
	if branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}

	var staff []models.User
	if err := q.Find(&staff).Error; err != nil {
		return nil, err
	}

	reports := make([]Performance, 0, len(staff))
	for _, member := range staff {
		perf, err := s.StaffPerformance(member.UserID, month, year)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *perf)
	}
	return reports, nil
}

// AllBranchPerformance builds scorecards for every active branch.
func (s *PerformanceService) AllBranchPerformance(month, year int) ([]Performance, error) {
	var branches []models.Branch
	if err := s.db.Where("is_active = 1 AND delete_at IS NULL").Find(&branches).Error; err != nil {
		return nil, err
	}

	reports := make([]Performance, 0, len(branches))
	for _, branch := range branches {
		perf, err := s.BranchPerformance(branch.BranchID, month, year)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *perf)
	}
	return reports, nil
}
