package controllers

import (
	"lead-pipeline-api/config"
	"lead-pipeline-api/models"
	"lead-pipeline-api/services"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetDashboardStats returns dashboard statistics shaped by the caller's role:
// owners see all branches, branch heads their own branch, staff their queue.
func GetDashboardStats(c *gin.Context) {
	userIDVal, userExists := c.Get("userID")
	roleIDVal, roleExists := c.Get("roleID")
	if !userExists || !roleExists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication context missing"})
		return
	}

	userID, okUser := userIDVal.(int)
	roleID, okRole := roleIDVal.(int)
	if !okUser || !okRole {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user or role id"})
		return
	}

	var stats map[string]interface{}
	switch roleID {
	case models.RoleOwner:
		stats = getOwnerDashboard()
	case models.RoleBranchHead:
		branchID, exists := c.Get("branchID")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Branch head has no branch"})
			return
		}
		stats = getBranchDashboard(branchID.(int))
	default:
		stats = getStaffDashboard(userID)
	}

	if stats == nil {
		stats = make(map[string]interface{})
	}
	stats["current_date"] = time.Now().Format("2006-01-02")

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

// pipelineCounts folds a scoped lead query into per-bucket totals.
func pipelineCounts(scope func() *gorm.DB) map[string]int64 {
	counts := make(map[string]int64)

	var total int64
	scope().Count(&total)
	counts["total"] = total

	var newCount int64
	scope().Where("application_status = ? AND assigned_staff_id IS NULL", models.LeadStatusLogin).
		Count(&newCount)
	counts[services.BucketNew] = newCount

	var assigned int64
	scope().Where("assigned_staff_id IS NOT NULL").Count(&assigned)
	counts[services.BucketAssigned] = assigned

	var unassigned int64
	scope().Where("application_status != ? AND assigned_staff_id IS NULL", models.LeadStatusLogin).
		Count(&unassigned)
	counts[services.BucketUnassigned] = unassigned

	var sanctioned int64
	scope().Where("application_status = ?", models.LeadStatusSanctioned).Count(&sanctioned)
	counts[services.BucketSanctioned] = sanctioned

	var rejected int64
	scope().Where("application_status = ?", models.LeadStatusRejected).Count(&rejected)
	counts[services.BucketRejected] = rejected

	return counts
}

// getOwnerDashboard aggregates the whole pipeline plus per-branch totals.
func getOwnerDashboard() map[string]interface{} {
	stats := make(map[string]interface{})

	stats["pipeline"] = pipelineCounts(func() *gorm.DB {
		return config.DB.Model(&models.Lead{}).Where("delete_at IS NULL")
	})

	var sanctionTotal struct {
		Amount float64
	}
	config.DB.Model(&models.Lead{}).
		Select("COALESCE(SUM(sanction_amount), 0) as amount").
		Where("application_status = ? AND delete_at IS NULL", models.LeadStatusSanctioned).
		Scan(&sanctionTotal)
	stats["total_sanctioned_amount"] = sanctionTotal.Amount

	type branchRow struct {
		BranchID   int    `json:"branch_id"`
		BranchName string `json:"branch_name"`
		Total      int64  `json:"total"`
		Sanctioned int64  `json:"sanctioned"`
	}
	var rows []branchRow
	config.DB.Model(&models.Lead{}).
		Select(`leads.branch_id,
			branches.branch_name,
			COUNT(*) as total,
			SUM(CASE WHEN application_status = ? THEN 1 ELSE 0 END) as sanctioned`,
			models.LeadStatusSanctioned).
		Joins("JOIN branches ON branches.branch_id = leads.branch_id").
		Where("leads.delete_at IS NULL").
		Group("leads.branch_id, branches.branch_name").
		Scan(&rows)
	stats["branches"] = rows

	return stats
}

// getBranchDashboard aggregates one branch's pipeline.
func getBranchDashboard(branchID int) map[string]interface{} {
	stats := make(map[string]interface{})

	stats["pipeline"] = pipelineCounts(func() *gorm.DB {
		return config.DB.Model(&models.Lead{}).
			Where("branch_id = ? AND delete_at IS NULL", branchID)
	})

	now := time.Now()
	svc := services.NewPerformanceService(config.DB)
	if perf, err := svc.BranchPerformance(branchID, int(now.Month()), now.Year()); err == nil {
		stats["month_performance"] = perf
	}

	return stats
}

// getStaffDashboard aggregates the staff member's personal queue.
func getStaffDashboard(userID int) map[string]interface{} {
	stats := make(map[string]interface{})

	queue := func() *gorm.DB {
		return config.DB.Model(&models.Lead{}).
			Where("assigned_staff_id = ? AND is_visible_to_staff = 1 AND delete_at IS NULL", userID)
	}

	var assigned, pending, sanctioned, rejected int64
	queue().Count(&assigned)
	queue().Where("application_status = ?", models.LeadStatusPending).Count(&pending)
	queue().Where("application_status = ?", models.LeadStatusSanctioned).Count(&sanctioned)
	queue().Where("application_status = ?", models.LeadStatusRejected).Count(&rejected)

	stats["my_queue"] = map[string]int64{
		"assigned":   assigned,
		"pending":    pending,
		"sanctioned": sanctioned,
		"rejected":   rejected,
	}

	now := time.Now()
	svc := services.NewPerformanceService(config.DB)
	if perf, err := svc.StaffPerformance(userID, int(now.Month()), now.Year()); err == nil {
		stats["month_performance"] = perf
	}

	return stats
}
