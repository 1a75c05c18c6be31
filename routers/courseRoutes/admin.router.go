package courseRoutes

import (
	controllers "coursebox/controllers/course"
	"coursebox/middleware"
	"coursebox/models"
	validators "coursebox/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course")
	admin := middleware.RequireRole(models.RoleAdmin)

	adminGroup.Post("/create", middleware.JWTMiddleware, admin, validators.CreateCourse(), controllers.CreateCourse)
	adminGroup.Post("/:courseId/lesson", middleware.JWTMiddleware, admin, validators.CourseIDParam(), validators.CreateLesson(), controllers.CreateLesson)
	adminGroup.Post("/:courseId/assessment", middleware.JWTMiddleware, admin, validators.CourseIDParam(), validators.CreateAssessment(), controllers.CreateAssessment)

	enrollGroup := app.Group("/admin/enrollment")
	enrollGroup.Post("/approve", middleware.JWTMiddleware, admin, validators.ApproveEnrollment(), controllers.ApproveEnrollment)

	templateGroup := app.Group("/admin/certificate-template")
	templateGroup.Post("/", middleware.JWTMiddleware, admin, validators.BindTemplate(), controllers.BindCertificateTemplate)
}
