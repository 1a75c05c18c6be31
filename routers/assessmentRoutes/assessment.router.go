package assessmentRoutes

import (
	controllers "coursebox/controllers/assessment"
	"coursebox/middleware"
	validators "coursebox/validators/assessment"

	"github.com/gofiber/fiber/v2"
)

func SetupAssessmentRoutes(app *fiber.App) {
	assessmentGroup := app.Group("/assessment")

	assessmentGroup.Post("/:assessmentId/submit", middleware.JWTMiddleware, validators.AssessmentIDParam(), validators.SubmitAnswers(), controllers.SubmitAssessment)
	assessmentGroup.Get("/:assessmentId/attempts", middleware.JWTMiddleware, validators.AssessmentIDParam(), controllers.GetAttempts)
}
