package controllers

import (
	"coursebox/database"
	"coursebox/middleware"
	"coursebox/models"
	courseModels "coursebox/models/course"
	certService "coursebox/services/certificate"
	"coursebox/utils"

	"github.com/gofiber/fiber/v2"
)

// GetEligibility reports whether a certificate can be issued for the user
// on a course. Read-only: a UI can poll this without side effects.
func GetEligibility(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	eligibility := certService.CheckEligibility(database.Database.Db, userID, uint(courseID))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Eligibility checked!", eligibility)
}

// GenerateCertificate issues (or re-fetches) the certificate for the user
// on a course
func GenerateCertificate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	cert, err := certService.Generate(database.Database.Db, utils.NewBlobStorage(), userID, uint(courseID), userID)
	if err != nil {
		if ne, ok := err.(*certService.NotEligibleError); ok {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, ne.Reason, nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate ready!", cert)
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	type CertificateWithCourse struct {
		courseModels.Certificate
		CourseTitle string `json:"course_title"`
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ?", userID).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	result := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", cert.CourseID).First(&course)
		result[i] = CertificateWithCourse{
			Certificate: cert,
			CourseTitle: course.Title,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": result,
		"total":        len(result),
	})
}

// VerifyCertificate is the public lookup by verification code
func VerifyCertificate(c *fiber.Ctx) error {
	hash := c.Params("hash")

	cert, err := certService.VerifyByHash(database.Database.Db, hash)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	var user models.User
	var course courseModels.Course
	database.Database.Db.Where("id = ?", cert.UserID).First(&user)
	database.Database.Db.Where("id = ?", cert.CourseID).First(&course)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verified!", fiber.Map{
		"hash":         cert.Hash,
		"student_name": user.Name,
		"course_title": course.Title,
		"final_score":  cert.FinalScore,
		"issued_at":    cert.IssuedAt,
		"issuer":       cert.IssuerName,
	})
}
