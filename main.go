package main

import (
	"log"

	"academy/config"
	"academy/database"
	"academy/listeners"
	assignmentRoutes "academy/routers/assignmentRoutes"
	authRoutes "academy/routers/authRoutes"
	certificateRoutes "academy/routers/certificateRoutes"
	courseRoutes "academy/routers/courseRoutes"
	notificationRoutes "academy/routers/notificationRoutes"
	paymentRoutes "academy/routers/paymentRoutes"
	progressRoutes "academy/routers/progressRoutes"
	quizRoutes "academy/routers/quizRoutes"
	"academy/scheduler"

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

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	progressRoutes.SetupProgressRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)
	quizRoutes.SetupQuizRoutes(app)
	assignmentRoutes.SetupAssignmentRoutes(app)

	listeners.Start()
	scheduler.InitializeSchedulers()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
