package controllers

import (
	"time"

	"coursebox/database"
	"coursebox/middleware"
	"coursebox/models"
	courseModels "coursebox/models/course"
	"coursebox/utils"

	"github.com/gofiber/fiber/v2"
)

// RequestEnrollment creates a PENDING enrollment for a free course. Paid
// courses go through the checkout flow instead.
func RequestEnrollment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ?", courseID, false, "ACTIVE").First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
	}

	if course.PriceCents > 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is paid, use checkout to enroll!", nil)
	}

	// Corporate trainings are restricted to the owning company's employees
	if course.ProgramType == courseModels.ProgramCorporate {
		if user.CompanyID == nil || course.CompanyID == nil || *user.CompanyID != *course.CompanyID {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Training is restricted to company employees!", nil)
		}
	}

	var existing courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already has an enrollment for this course!", existing)
	}

	enrollment := courseModels.Enrollment{
		UserID:   userID,
		CourseID: uint(courseID),
		Status:   courseModels.EnrollmentPending,
	}

	if err := database.Database.Db.Create(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to request enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrollment requested, awaiting approval!", enrollment)
}

// GetUserEnrollments lists the current user's enrollments with course info
func GetUserEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	type EnrollmentWithCourse struct {
		courseModels.Enrollment
		CourseTitle  string `json:"course_title"`
		CourseAuthor string `json:"course_author"`
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ?", userID).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	result := make([]EnrollmentWithCourse, len(enrollments))
	for i, e := range enrollments {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", e.CourseID).First(&course)
		result[i] = EnrollmentWithCourse{
			Enrollment:   e,
			CourseTitle:  course.Title,
			CourseAuthor: course.Author,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       len(result),
	})
}

// ApproveEnrollment approves or rejects a pending enrollment (admin only)
func ApproveEnrollment(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedApproval").(*struct {
		EnrollmentID uint `json:"enrollment_id" validate:"required"`
		Approve      bool `json:"approve"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("id = ?", reqData.EnrollmentID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.Status != courseModels.EnrollmentPending {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Enrollment is not pending!", enrollment)
	}

	status := courseModels.EnrollmentRejected
	if reqData.Approve {
		status = courseModels.EnrollmentApproved
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      status,
		"approved_by": adminID,
	}
	if reqData.Approve {
		updates["approved_at"] = now
	}

	if err := db.Model(&enrollment).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update enrollment!", nil)
	}

	if reqData.Approve {
		var user models.User
		var course courseModels.Course
		if db.Where("id = ?", enrollment.UserID).First(&user).Error == nil &&
			db.Where("id = ?", enrollment.CourseID).First(&course).Error == nil {
			go utils.SendEnrollmentApprovedEmail(user.Name, user.Email, course.Title)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment updated successfully!", enrollment)
}
