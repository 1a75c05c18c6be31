package controllers

import (
	"coursebox/database"
	"coursebox/middleware"
	"coursebox/models"
	courseModels "coursebox/models/course"
	assessmentService "coursebox/services/assessment"
	"coursebox/utils"

	"github.com/gofiber/fiber/v2"
)

// SubmitAssessment grades a submission and records the attempt. Passing a
// final exam issues the certificate inline.
func SubmitAssessment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	assessmentID := c.Locals("assessmentID").(int)
	answers, ok := c.Locals("validatedAnswers").(map[uint]uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := assessmentService.Submit(database.Database.Db, utils.NewBlobStorage(), userID, uint(assessmentID), answers)
	if err != nil {
		if se, ok := err.(*assessmentService.SubmitError); ok {
			return middleware.JsonResponse(c, se.Status, false, se.Reason, nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assessment!", nil)
	}

	if result.Certificate != nil {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", result.Certificate.CourseID).First(&course)
		go utils.SendCertificateIssuedEmail(user.Name, user.Email, course.Title, result.Certificate.Hash, result.Certificate.DocumentURL)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment submitted!", result)
}

// GetAttempts lists the user's attempts for an assessment, newest first
func GetAttempts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assessmentID := c.Locals("assessmentID").(int)

	attempts, err := assessmentService.ListAttempts(database.Database.Db, userID, uint(assessmentID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", fiber.Map{
		"attempts": attempts,
		"total":    len(attempts),
	})
}
