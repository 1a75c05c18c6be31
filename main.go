package main

import (
	"log"

	"coursebox/config"
	"coursebox/database"
	assessmentRoutes "coursebox/routers/assessmentRoutes"
	authRoutes "coursebox/routers/authRoutes"
	certificateRoutes "coursebox/routers/certificateRoutes"
	checkoutRoutes "coursebox/routers/checkoutRoutes"
	couponRoutes "coursebox/routers/couponRoutes"
	courseRoutes "coursebox/routers/courseRoutes"
	"coursebox/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	assessmentRoutes.SetupAssessmentRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app)
	checkoutRoutes.SetupCheckoutRoutes(app)
	couponRoutes.SetupCouponRoutes(app)

	// Nightly sweep that fails payments stuck in PENDING
	utils.InitializePaymentScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
