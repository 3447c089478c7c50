package controllers

import (
	"lead-pipeline-api/config"
	"lead-pipeline-api/models"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// GetStaff returns the staff directory. Branch heads see their own branch;
// owners see everyone. ?active=true limits to active members only.
func GetStaff(c *gin.Context) {
	roleID, _ := c.Get("roleID")

	var staff []models.User
	query := config.DB.Preload("Role").Preload("Branch").
		Where("role_id = ? AND delete_at IS NULL", models.RoleStaff)

	if roleID.(int) == models.RoleBranchHead {
		branchID, exists := c.Get("branchID")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Branch head has no branch"})
			return
		}
		query = query.Where("branch_id = ?", branchID)
	} else if branch := c.Query("branch_id"); branch != "" {
		query = query.Where("branch_id = ?", branch)
	}

	if c.Query("active") == "true" {
		query = query.Where("is_active = 1")
	}

	if err := query.Order("user_fname ASC").Find(&staff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch staff"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"staff": staff,
		"total": len(staff),
	})
}

// CreateStaff registers a staff member (owner or branch head)
func CreateStaff(c *gin.Context) {
	type CreateStaffRequest struct {
		UserFname string `json:"user_fname" binding:"required"`
		UserLname string `json:"user_lname"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		Phone     string `json:"phone"`
		BranchID  int    `json:"branch_id" binding:"required"`
	}

	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Branch heads can only add staff to their own branch
	roleID, _ := c.Get("roleID")
	if roleID.(int) == models.RoleBranchHead {
		branchID, _ := c.Get("branchID")
		if branchID == nil || branchID.(int) != req.BranchID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot add staff to another branch"})
			return
		}
	}

	var existing models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", req.Email).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	user := models.User{
		UserFname: req.UserFname,
		UserLname: req.UserLname,
		Email:     req.Email,
		Password:  string(hashed),
		Phone:     req.Phone,
		RoleID:    models.RoleStaff,
		BranchID:  &req.BranchID,
		IsActive:  true,
		CreateAt:  &now,
		UpdateAt:  &now,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create staff"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Staff created successfully",
		"staff":   user,
	})
}
