package controllers

import (
	"coursebox/database"
	"coursebox/middleware"
	"coursebox/models"
	checkoutService "coursebox/services/checkout"
	couponService "coursebox/services/coupon"
	"coursebox/utils"

	"github.com/gofiber/fiber/v2"
)

// InitiateCheckout starts a paid enrollment through the chosen gateway and
// returns the provider-hosted payment URL
func InitiateCheckout(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCheckout").(*struct {
		CourseID   uint   `json:"course_id" validate:"required"`
		Gateway    string `json:"gateway" validate:"omitempty,oneof=CARD PIX"`
		CouponCode string `json:"coupon_code"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var gw checkoutService.Gateway
	switch reqData.Gateway {
	case models.GatewayPix:
		gw = utils.NewPixGateway()
	default:
		gw = utils.NewCardGateway()
	}

	session, err := checkoutService.Initiate(database.Database.Db, gw, userID, reqData.CourseID, reqData.CouponCode)
	if err != nil {
		switch e := err.(type) {
		case *checkoutService.InitiateError:
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, e.Reason, nil)
		case *couponService.InvalidCouponError:
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, e.Reason, nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, err.Error(), nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Checkout session created!", session)
}
