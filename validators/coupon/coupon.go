package couponValidator

import (
	"strconv"
	"time"

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

// CouponIDParam parses and validates the :couponId path parameter
func CouponIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		couponID, err := strconv.Atoi(c.Params("couponId"))
		if err != nil || couponID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid coupon id!", nil)
		}

		c.Locals("couponID", couponID)
		return c.Next()
	}
}

// ValidateCoupon validator middleware (coupon quote request)
func ValidateCoupon() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Code     string `json:"code" validate:"required"`
			CourseID uint   `json:"course_id" validate:"required"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedCouponCheck", reqData)
		return c.Next()
	}
}

// CreateCoupon validator middleware (admin)
func CreateCoupon() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Code          string     `json:"code" validate:"required,min=3"`
			DiscountType  string     `json:"discount_type" validate:"required,oneof=PERCENTAGE FIXED"`
			DiscountValue float64    `json:"discount_value" validate:"required,gt=0"`
			ValidFrom     *time.Time `json:"valid_from"`
			ValidUntil    *time.Time `json:"valid_until"`
			MaxUses       *int       `json:"max_uses" validate:"omitempty,gt=0"`
			MinPurchase   *int64     `json:"min_purchase" validate:"omitempty,gt=0"`
			CourseIDs     []uint     `json:"course_ids"` // empty = applies to all courses
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedCoupon", reqData)
		return c.Next()
	}
}
