package controllers

import (
	"fmt"
	"lead-pipeline-api/config"
	"lead-pipeline-api/models"
	"lead-pipeline-api/services"
	"lead-pipeline-api/utils"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var leadReportHeader = []string{
	"Lead Number", "Customer Name", "Contact Number", "Product",
	"Assigned Staff", "Status", "Bank", "Branch", "Created Date",
}

// leadReportRow projects one lead onto the fixed report columns.
func leadReportRow(lead models.Lead) []string {
	staffName := ""
	if lead.AssignedStaff != nil {
		staffName = lead.AssignedStaff.FullName()
	}
	bank := ""
	if lead.BankSelection != nil {
		bank = *lead.BankSelection
	}
	return []string{
		lead.LeadNumber,
		lead.CustomerName,
		lead.ContactNumber,
		lead.LeadType,
		staffName,
		lead.ApplicationStatus,
		bank,
		lead.Branch.BranchName,
		lead.CreateAt.Format("2006-01-02"),
	}
}

// writeCSV sends rows as a CSV download with the dated report filename.
func writeCSV(c *gin.Context, report string, header []string, rows [][]string) {
	data, err := utils.BuildCSV(header, rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	filename := utils.ReportFilename(report, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// fetchReportLeads loads leads for reporting with the caller's scope applied.
func fetchReportLeads(c *gin.Context, narrow func(*gorm.DB) *gorm.DB) ([]models.Lead, bool) {
	var leads []models.Lead
	query := config.DB.Preload("Branch").Preload("AssignedStaff").
		Where("leads.delete_at IS NULL")
	query = scopeLeadQuery(c, query)
	if branch := c.Query("branch_id"); branch != "" {
		query = query.Where("branch_id = ?", branch)
	}
	if narrow != nil {
		query = narrow(query)
	}

	if err := query.Order("create_at DESC").Find(&leads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leads"})
		return nil, false
	}
	return leads, true
}

// ExportLeadsCSV exports the full lead list visible to the caller
func ExportLeadsCSV(c *gin.Context) {
	leads, ok := fetchReportLeads(c, nil)
	if !ok {
		return
	}

	rows := make([][]string, 0, len(leads))
	for _, lead := range leads {
		rows = append(rows, leadReportRow(lead))
	}
	writeCSV(c, "leads", leadReportHeader, rows)
}

// ExportSanctionedCSV exports sanctioned leads with outcome columns
func ExportSanctionedCSV(c *gin.Context) {
	leads, ok := fetchReportLeads(c, func(q *gorm.DB) *gorm.DB {
		return q.Where("application_status = ?", models.LeadStatusSanctioned)
	})
	if !ok {
		return
	}

	header := append(append([]string{}, leadReportHeader...),
		"Sanction Amount", "Sanction Date", "Disbursement Status")
	rows := make([][]string, 0, len(leads))
	for _, lead := range leads {
		disbursement := ""
		if lead.DisbursementStatus != nil {
			disbursement = *lead.DisbursementStatus
		}
		row := append(leadReportRow(lead),
			utils.FormatAmount(lead.SanctionAmount),
			utils.FormatDate(lead.SanctionDate),
			disbursement)
		rows = append(rows, row)
	}
	writeCSV(c, "sanctioned-leads", header, rows)
}

// ExportRejectedCSV exports rejected leads with the rejection reason
func ExportRejectedCSV(c *gin.Context) {
	leads, ok := fetchReportLeads(c, func(q *gorm.DB) *gorm.DB {
		return q.Where("application_status = ?", models.LeadStatusRejected)
	})
	if !ok {
		return
	}

	header := append(append([]string{}, leadReportHeader...), "Rejection Reason")
	rows := make([][]string, 0, len(leads))
	for _, lead := range leads {
		reason := ""
		if lead.RejectionReason != nil {
			reason = *lead.RejectionReason
		}
		rows = append(rows, append(leadReportRow(lead), reason))
	}
	writeCSV(c, "rejected-leads", header, rows)
}

// ExportDailyCSV exports leads created on one day (?date=YYYY-MM-DD,
// default today)
func ExportDailyCSV(c *gin.Context) {
	day := time.Now()
	if dateParam := c.Query("date"); dateParam != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateParam, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 0, 1)

	leads, ok := fetchReportLeads(c, func(q *gorm.DB) *gorm.DB {
		return q.Where("create_at >= ? AND create_at < ?", start, end)
	})
	if !ok {
		return
	}

	rows := make([][]string, 0, len(leads))
	for _, lead := range leads {
		rows = append(rows, leadReportRow(lead))
	}
	writeCSV(c, "daily-leads", leadReportHeader, rows)
}

var performanceReportHeader = []string{
	"Name", "Month", "Year", "Leads Created", "Files Assigned",
	"Files Sanctioned", "Files Rejected", "Conversion Rate (%)",
}

func performanceRow(perf services.Performance) []string {
	return []string{
		perf.EntityName,
		strconv.Itoa(perf.Month),
		strconv.Itoa(perf.Year),
		strconv.FormatInt(perf.LeadsCreated, 10),
		strconv.FormatInt(perf.FilesAssigned, 10),
		strconv.FormatInt(perf.FilesSanctioned, 10),
		strconv.FormatInt(perf.FilesRejected, 10),
		fmt.Sprintf("%.1f", perf.ConversionRate),
	}
}

// reportMonthYear reads ?month= and ?year=, defaulting to the current month.
func reportMonthYear(c *gin.Context) (int, int, bool) {
	now := time.Now()
	month, year := int(now.Month()), now.Year()

	if m := c.Query("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
			return 0, 0, false
		}
		month = parsed
	}
	if y := c.Query("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil || parsed < 2000 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
			return 0, 0, false
		}
		year = parsed
	}
	return month, year, true
}

// ExportStaffPerformanceCSV exports the monthly staff scorecards
func ExportStaffPerformanceCSV(c *gin.Context) {
	month, year, ok := reportMonthYear(c)
	if !ok {
		return
	}

	var branchID *int
	if roleID, _ := c.Get("roleID"); roleID.(int) == models.RoleBranchHead {
		if ctxBranch, exists := c.Get("branchID"); exists {
			b := ctxBranch.(int)
			branchID = &b
		}
	} else if branch := c.Query("branch_id"); branch != "" {
		b, err := strconv.Atoi(branch)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid branch id"})
			return
		}
		branchID = &b
	}

	svc := services.NewPerformanceService(config.DB)
	reports, err := svc.AllStaffPerformance(branchID, month, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute performance"})
		return
	}

	rows := make([][]string, 0, len(reports))
	for _, perf := range reports {
		rows = append(rows, performanceRow(perf))
	}
	writeCSV(c, "staff-performance", performanceReportHeader, rows)
}

// ExportBranchPerformanceCSV exports the monthly branch scorecards (owner)
func ExportBranchPerformanceCSV(c *gin.Context) {
	month, year, ok := reportMonthYear(c)
	if !ok {
		return
	}

	svc := services.NewPerformanceService(config.DB)
	reports, err := svc.AllBranchPerformance(month, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute performance"})
		return
	}

	rows := make([][]string, 0, len(reports))
	for _, perf := range reports {
		rows = append(rows, performanceRow(perf))
	}
	writeCSV(c, "branch-performance", performanceReportHeader, rows)
}
