package courseValidator

import (
	"strconv"

	courseControllers "coursebox/controllers/course"
	"coursebox/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func validationErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errors[fe.Field()] = "Failed on the '" + fe.Tag() + "' rule!"
		}
	} else {
		errors["request"] = "Invalid request data!"
	}
	return errors
}

// CourseIDParam parses and validates the :courseId path parameter
func CourseIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := strconv.Atoi(c.Params("courseId"))
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// CreateCourse validator middleware (admin)
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title" validate:"required,min=3"`
			Description string `json:"description"`
			Author      string `json:"author"`
			ProgramType string `json:"program_type" validate:"omitempty,oneof=INDIVIDUAL CORPORATE"`
			CompanyID   *uint  `json:"company_id"`
			PriceCents  int64  `json:"price_cents" validate:"gte=0"`
			Currency    string `json:"currency"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// CreateLesson validator middleware (admin)
func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title" validate:"required"`
			Description string `json:"description"`
			ContentType string `json:"content_type" validate:"omitempty,oneof=TEXT VIDEO"`
			TextContent string `json:"text_content"`
			VideoURL    string `json:"video_url"`
			OrderIndex  int    `json:"order_index"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

// CreateAssessment validator middleware (admin)
func CreateAssessment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(courseControllers.AssessmentInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedAssessment", reqData)
		return c.Next()
	}
}

// ApproveEnrollment validator middleware (admin)
func ApproveEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			EnrollmentID uint `json:"enrollment_id" validate:"required"`
			Approve      bool `json:"approve"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedApproval", reqData)
		return c.Next()
	}
}

// BindTemplate validator middleware (admin)
func BindTemplate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name        string `json:"name" validate:"required"`
			CourseID    *uint  `json:"course_id"`
			CompanyID   *uint  `json:"company_id"`
			TemplateURL string `json:"template_url" validate:"required,url"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedTemplate", reqData)
		return c.Next()
	}
}
