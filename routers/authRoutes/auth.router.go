package authRoutes

import (
	authControllers "coursebox/controllers/auth"
	"coursebox/middleware"
	"coursebox/models"
	authValidators "coursebox/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)

	adminGroup := app.Group("/admin")
	adminGroup.Post("/company", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), authValidators.CreateCompany(), authControllers.CreateCompany)
	adminGroup.Post("/employee", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), authValidators.CreateEmployee(), authControllers.CreateEmployee)
}
