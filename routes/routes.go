package routes

import (
	"lead-pipeline-api/controllers"
	"lead-pipeline-api/middleware"
	"lead-pipeline-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Lead Pipeline API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Directories
			protected.GET("/branches", controllers.GetBranches)
			protected.POST("/branches", middleware.RequireRole(models.RoleOwner), controllers.CreateBranch)
			protected.GET("/staff", middleware.RequireRole(models.RoleBranchHead, models.RoleOwner), controllers.GetStaff)
			protected.POST("/staff", middleware.RequireRole(models.RoleBranchHead, models.RoleOwner), controllers.CreateStaff)

			// Leads
			leads := protected.Group("/leads")
			{
				leads.GET("", controllers.GetLeads)
				leads.GET("/board", controllers.GetLeadBoard)
				leads.GET("/:id", controllers.GetLead)
				leads.POST("", controllers.CreateLead)

				// Only owners and branch heads manage assignment
				leads.POST("/:id/assign", middleware.RequireRole(models.RoleBranchHead, models.RoleOwner), controllers.AssignLead)
				leads.POST("/:id/unassign", middleware.RequireRole(models.RoleBranchHead, models.RoleOwner), controllers.UnassignLead)

				leads.POST("/:id/status", controllers.UpdateLeadStatus)
				leads.PUT("/:id/documents/:document_id", controllers.UpdateLeadDocument)
			}

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)

			// CSV reports
			reports := protected.Group("/reports")
			{
				reports.GET("/leads.csv", controllers.ExportLeadsCSV)
				reports.GET("/sanctioned.csv", controllers.ExportSanctionedCSV)
				reports.GET("/rejected.csv", controllers.ExportRejectedCSV)
				reports.GET("/daily.csv", controllers.ExportDailyCSV)
				reports.GET("/staff-performance.csv",
					middleware.RequireRole(models.RoleBranchHead, models.RoleOwner), controllers.ExportStaffPerformanceCSV)
				reports.GET("/branch-performance.csv",
					middleware.RequireRole(models.RoleOwner), controllers.ExportBranchPerformanceCSV)
			}
		}
	}
}
