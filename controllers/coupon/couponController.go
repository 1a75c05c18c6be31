package controllers

import (
	"strings"
	"time"

	"coursebox/database"
	"coursebox/middleware"
	"coursebox/models"
	courseModels "coursebox/models/course"
	couponService "coursebox/services/coupon"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ValidateCoupon quotes a discounted price for the user without consuming
// the coupon. Redemption happens at payment settlement.
func ValidateCoupon(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCouponCheck").(*struct {
		Code     string `json:"code" validate:"required"`
		CourseID uint   `json:"course_id" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	quote, err := couponService.Validate(database.Database.Db, reqData.Code, reqData.CourseID, userID, course.PriceCents)
	if err != nil {
		if ie, ok := err.(*couponService.InvalidCouponError); ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, ie.Reason, fiber.Map{"valid": false})
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to validate coupon!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupon is valid!", fiber.Map{
		"valid":          true,
		"code":           quote.Coupon.Code,
		"discount_cents": quote.DiscountCents,
		"final_cents":    quote.FinalCents,
	})
}

// CreateCoupon creates a discount code (admin only)
func CreateCoupon(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCoupon").(*struct {
		Code          string     `json:"code" validate:"required,min=3"`
		DiscountType  string     `json:"discount_type" validate:"required,oneof=PERCENTAGE FIXED"`
		DiscountValue float64    `json:"discount_value" validate:"required,gt=0"`
		ValidFrom     *time.Time `json:"valid_from"`
		ValidUntil    *time.Time `json:"valid_until"`
		MaxUses       *int       `json:"max_uses" validate:"omitempty,gt=0"`
		MinPurchase   *int64     `json:"min_purchase" validate:"omitempty,gt=0"`
		CourseIDs     []uint     `json:"course_ids"` // empty = applies to all courses
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.DiscountType == models.DiscountPercentage && reqData.DiscountValue > 100 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Percentage discount cannot exceed 100!", nil)
	}

	code := strings.ToUpper(strings.TrimSpace(reqData.Code))

	var existing models.Coupon
	if err := database.Database.Db.Where("code = ?", code).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Coupon code already exists!", nil)
	}

	validFrom := time.Now()
	if reqData.ValidFrom != nil {
		validFrom = *reqData.ValidFrom
	}

	cpn := models.Coupon{
		Code:          code,
		DiscountType:  reqData.DiscountType,
		DiscountValue: reqData.DiscountValue,
		IsActive:      true,
		ValidFrom:     validFrom,
		ValidUntil:    reqData.ValidUntil,
		MaxUses:       reqData.MaxUses,
		MinPurchase:   reqData.MinPurchase,
		AppliesToAll:  len(reqData.CourseIDs) == 0,
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cpn).Error; err != nil {
			return err
		}
		for _, courseID := range reqData.CourseIDs {
			if err := tx.Create(&models.CouponCourse{CouponID: cpn.ID, CourseID: courseID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create coupon!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Coupon created successfully!", cpn)
}

// GetCoupons lists all coupons with usage counts (admin only)
func GetCoupons(c *fiber.Ctx) error {
	var coupons []models.Coupon
	if err := database.Database.Db.Where("is_deleted = ?", false).Order("created_at desc").Find(&coupons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch coupons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupons fetched successfully!", fiber.Map{
		"coupons": coupons,
		"total":   len(coupons),
	})
}

// DeactivateCoupon disables a coupon (admin only)
func DeactivateCoupon(c *fiber.Ctx) error {
	couponID := c.Locals("couponID").(int)

	var cpn models.Coupon
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", couponID, false).First(&cpn).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Coupon not found!", nil)
	}

	if err := database.Database.Db.Model(&cpn).Update("is_active", false).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to deactivate coupon!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupon deactivated!", cpn)
}
