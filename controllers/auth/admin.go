package authController

import (
	"log"

	"coursebox/config"
	"coursebox/database"
	"coursebox/middleware"
	"coursebox/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// CreateCompany registers a corporate account (admin only)
func CreateCompany(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCompany").(*struct {
		Name         string `json:"name" validate:"required,min=2"`
		ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	company := models.Company{
		Name:         reqData.Name,
		ContactEmail: reqData.ContactEmail,
	}

	if err := database.Database.Db.Create(&company).Error; err != nil {
		log.Printf("Error creating company: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create company!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Company created successfully!", company)
}

// CreateEmployee registers an employee account under a company (admin only)
func CreateEmployee(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedEmployee").(*struct {
		Name      string `json:"name" validate:"required,min=3"`
		Email     string `json:"email" validate:"required,email"`
		Password  string `json:"password" validate:"required,min=8"`
		CompanyID uint   `json:"company_id" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var company models.Company
	if err := db.Where("id = ? AND is_deleted = ?", reqData.CompanyID, false).First(&company).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Company not found!", nil)
	}

	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	employee := models.User{
		Name:      reqData.Name,
		Email:     reqData.Email,
		Role:      models.RoleEmployee,
		Password:  string(hashedPassword),
		CompanyID: &reqData.CompanyID,
	}

	if err := db.Create(&employee).Error; err != nil {
		log.Printf("Error creating employee: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create employee!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Employee created successfully!", fiber.Map{
		"id":         employee.ID,
		"name":       employee.Name,
		"email":      employee.Email,
		"role":       employee.Role,
		"company_id": employee.CompanyID,
	})
}
