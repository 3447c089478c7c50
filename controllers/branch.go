package controllers

import (
	"lead-pipeline-api/config"
	"lead-pipeline-api/models"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetBranches returns all active branches
func GetBranches(c *gin.Context) {
	var branches []models.Branch
	if err := config.DB.Where("is_active = 1 AND delete_at IS NULL").
		Order("branch_name ASC").Find(&branches).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch branches"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"branches": branches,
		"total":    len(branches),
	})
}

// CreateBranch creates a new branch (owner only)
func CreateBranch(c *gin.Context) {
	type CreateBranchRequest struct {
		BranchName string `json:"branch_name" binding:"required"`
		BranchCode string `json:"branch_code" binding:"required"`
		Address    string `json:"address"`
		Phone      string `json:"phone"`
	}

	var req CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// branch_code must be unique among live branches
	var existing models.Branch
	if err := config.DB.Where("branch_code = ? AND delete_at IS NULL", req.BranchCode).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Branch code already exists"})
		return
	}

	now := time.Now()
	branch := models.Branch{
		BranchName: req.BranchName,
		BranchCode: req.BranchCode,
		Address:    req.Address,
		Phone:      req.Phone,
		IsActive:   true,
		CreateAt:   now,
		UpdateAt:   now,
	}

	if err := config.DB.Create(&branch).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create branch"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Branch created successfully",
		"branch":  branch,
	})
}
