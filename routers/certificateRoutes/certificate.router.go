package certificateRoutes

import (
	controllers "coursebox/controllers/certificate"
	"coursebox/middleware"
	courseValidators "coursebox/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupCertificateRoutes(app *fiber.App) {
	certGroup := app.Group("/certificate")

	certGroup.Get("/course/:courseId/eligibility", middleware.JWTMiddleware, courseValidators.CourseIDParam(), controllers.GetEligibility)
	certGroup.Post("/course/:courseId/generate", middleware.JWTMiddleware, courseValidators.CourseIDParam(), controllers.GenerateCertificate)
	certGroup.Get("/list", middleware.JWTMiddleware, controllers.GetUserCertificates)

	// Public verification endpoint, no auth
	certGroup.Get("/verify/:hash", controllers.VerifyCertificate)
}
