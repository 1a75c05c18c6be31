package couponRoutes

import (
	controllers "coursebox/controllers/coupon"
	"coursebox/middleware"
	"coursebox/models"
	validators "coursebox/validators/coupon"

	"github.com/gofiber/fiber/v2"
)

func SetupCouponRoutes(app *fiber.App) {
	couponGroup := app.Group("/coupon")
	couponGroup.Post("/validate", middleware.JWTMiddleware, validators.ValidateCoupon(), controllers.ValidateCoupon)

	adminGroup := app.Group("/admin/coupon")
	admin := middleware.RequireRole(models.RoleAdmin)
	adminGroup.Post("/create", middleware.JWTMiddleware, admin, validators.CreateCoupon(), controllers.CreateCoupon)
	adminGroup.Get("/list", middleware.JWTMiddleware, admin, controllers.GetCoupons)
	adminGroup.Patch("/:couponId/deactivate", middleware.JWTMiddleware, admin, validators.CouponIDParam(), controllers.DeactivateCoupon)
}
