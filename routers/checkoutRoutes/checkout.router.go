package checkoutRoutes

import (
	controllers "coursebox/controllers/checkout"
	"coursebox/middleware"
	validators "coursebox/validators/checkout"

	"github.com/gofiber/fiber/v2"
)

func SetupCheckoutRoutes(app *fiber.App) {
	checkoutGroup := app.Group("/checkout")
	checkoutGroup.Post("/initiate", middleware.JWTMiddleware, validators.InitiateCheckout(), controllers.InitiateCheckout)

	// Provider callbacks authenticate with their own signatures, not JWT
	webhookGroup := app.Group("/webhooks")
	webhookGroup.Post("/card", controllers.CardWebhook)
	webhookGroup.Post("/pix", controllers.PixWebhook)
}
