package checkoutValidator

import (
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

// InitiateCheckout validator middleware
func InitiateCheckout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			CourseID   uint   `json:"course_id" validate:"required"`
			Gateway    string `json:"gateway" validate:"omitempty,oneof=CARD PIX"`
			CouponCode string `json:"coupon_code"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedCheckout", reqData)
		return c.Next()
	}
}
