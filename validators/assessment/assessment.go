package assessmentValidator

import (
	"strconv"

	"coursebox/middleware"

	"github.com/gofiber/fiber/v2"
)

// AssessmentIDParam parses and validates the :assessmentId path parameter
func AssessmentIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		assessmentID, err := strconv.Atoi(c.Params("assessmentId"))
		if err != nil || assessmentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid assessment id!", nil)
		}

		c.Locals("assessmentID", assessmentID)
		return c.Next()
	}
}

// SubmitAnswers validates the answer sheet: a map of question id to the
// selected option id. Keys arrive as JSON strings and are converted here.
func SubmitAnswers() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers map[string]uint `json:"answers"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Answers == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"answers": "Answers are required!",
			})
		}

		answers := make(map[uint]uint, len(reqData.Answers))
		for rawID, optionID := range reqData.Answers {
			questionID, err := strconv.ParseUint(rawID, 10, 32)
			if err != nil || questionID == 0 {
				return middleware.ValidationErrorResponse(c, map[string]string{
					"answers": "Question ids must be positive integers!",
				})
			}
			answers[uint(questionID)] = optionID
		}

		c.Locals("validatedAnswers", answers)
		return c.Next()
	}
}
