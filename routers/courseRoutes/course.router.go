package courseRoutes

import (
	controllers "coursebox/controllers/course"
	"coursebox/middleware"
	validators "coursebox/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog
	courseGroup.Get("/list", middleware.JWTMiddleware, controllers.GetAllCourses)
	courseGroup.Get("/:courseId", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.GetCourseDetails)

	// Free-course enrollment (paid courses go through checkout)
	courseGroup.Post("/:courseId/enroll", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.RequestEnrollment)

	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollments)
}
