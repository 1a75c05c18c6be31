package controllers

import (
	"coursebox/database"
	"coursebox/middleware"
	"coursebox/models"
	courseModels "coursebox/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetAllCourses lists published active courses visible to the user.
// Corporate trainings only show up for employees of the owning company.
func GetAllCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	query := database.Database.Db.
		Where("is_deleted = ? AND is_published = ? AND status = ?", false, true, "ACTIVE")

	if user.CompanyID != nil {
		query = query.Where("program_type = ? OR company_id = ?", courseModels.ProgramIndividual, *user.CompanyID)
	} else {
		query = query.Where("program_type = ?", courseModels.ProgramIndividual)
	}

	var courses []courseModels.Course
	if err := query.Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"total":   len(courses),
	})
}

// GetCourseDetails returns one course with its lessons and assessments
func GetCourseDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lessons []courseModels.Lesson
	database.Database.Db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Order("order_index asc").Find(&lessons)

	var assessments []courseModels.Assessment
	database.Database.Db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Find(&assessments)

	var enrollment courseModels.Enrollment
	enrolled := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error == nil

	data := fiber.Map{
		"course":      course,
		"lessons":     lessons,
		"assessments": assessments,
	}
	if enrolled {
		data["enrollment"] = enrollment
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", data)
}
