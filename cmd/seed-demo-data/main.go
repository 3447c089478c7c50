// Seed script for local development: roles, a demo branch and users,
// and the document requirement catalog.
// cmd/seed-demo-data/main.go
package main

import (
	"lead-pipeline-api/config"
	"lead-pipeline-api/models"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var roleNames = map[int]string{
	models.RoleStaff:      "staff",
	models.RoleBranchHead: "branch_head",
	models.RoleOwner:      "owner",
}

// Required documents per loan product.
var requirementCatalog = map[string][]string{
	"Home Loan":     {"Identity Proof", "Address Proof", "Income Proof", "Property Papers", "Bank Statement"},
	"Personal Loan": {"Identity Proof", "Address Proof", "Income Proof", "Bank Statement"},
	"Business Loan": {"Identity Proof", "Business Registration", "ITR (2 years)", "Bank Statement"},
	"Vehicle Loan":  {"Identity Proof", "Address Proof", "Income Proof", "Quotation"},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.InitDB()
	now := time.Now()

	// Roles
	for id, name := range roleNames {
		var existing models.Role
		if err := config.DB.Where("role_id = ?", id).First(&existing).Error; err == nil {
			continue
		}
		role := models.Role{RoleID: id, Role: name, CreateAt: &now, UpdateAt: &now}
		if err := config.DB.Create(&role).Error; err != nil {
			log.Fatalf("Failed to create role %s: %v", name, err)
		}
		log.Printf("Created role %s\n", name)
	}

	// Demo branch
	var branch models.Branch
	if err := config.DB.Where("branch_code = ?", "HQ01").First(&branch).Error; err != nil {
		branch = models.Branch{
			BranchName: "Head Office",
			BranchCode: "HQ01",
			Address:    "1 Main Street",
			IsActive:   true,
			CreateAt:   now,
			UpdateAt:   now,
		}
		if err := config.DB.Create(&branch).Error; err != nil {
			log.Fatal("Failed to create branch:", err)
		}
		log.Println("Created branch Head Office")
	}

	// Demo users, one per role
	seedUser := func(fname, email string, roleID int) {
		var existing models.User
		if err := config.DB.Where("email = ?", email).First(&existing).Error; err == nil {
			log.Printf("User %s already exists, skipping\n", email)
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("Failed to hash password:", err)
		}
		user := models.User{
			UserFname: fname,
			Email:     email,
			Password:  string(hashed),
			RoleID:    roleID,
			BranchID:  &branch.BranchID,
			IsActive:  true,
			CreateAt:  &now,
			UpdateAt:  &now,
		}
		if err := config.DB.Create(&user).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", email, err)
		}
		log.Printf("Created user %s\n", email)
	}

	seedUser("Owner", "owner@example.com", models.RoleOwner)
	seedUser("Head", "head@example.com", models.RoleBranchHead)
	seedUser("Staff", "staff@example.com", models.RoleStaff)

	// Document requirement catalog
	for leadType, docs := range requirementCatalog {
		for order, name := range docs {
			var existing models.DocumentRequirement
			if err := config.DB.Where("lead_type = ? AND document_name = ? AND delete_at IS NULL",
				leadType, name).First(&existing).Error; err == nil {
				continue
			}
			req := models.DocumentRequirement{
				LeadType:      leadType,
				DocumentName:  name,
				Required:      true,
				DocumentOrder: order + 1,
				CreateAt:      now,
				UpdateAt:      now,
			}
			if err := config.DB.Create(&req).Error; err != nil {
				log.Fatalf("Failed to create requirement %s/%s: %v", leadType, name, err)
			}
		}
		log.Printf("Seeded requirements for %s\n", leadType)
	}

	log.Println("Seeding completed!")
}
