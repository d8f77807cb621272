package paymentRoutes

import (
	controllers "academy/controllers/payment"
	"academy/middleware"
	validators "academy/validators/payment"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes sets up payment initialization, verification and
// ledger queries
func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment", middleware.JWTMiddleware)

	paymentGroup.Post("/initialize", validators.InitPayment(), controllers.InitializePayment)
	paymentGroup.Get("/list", controllers.GetStudentPayments)
	paymentGroup.Get("/balance/:courseId", validators.CourseIDParam(), controllers.GetRemainingBalance)
	paymentGroup.Get("/:id", validators.PaymentIDParam(), controllers.GetPaymentByID)

	adminGroup := app.Group("/admin/payment", middleware.JWTMiddleware, middleware.AdminMiddleware)
	adminGroup.Get("/list", controllers.GetAllPayments)
	adminGroup.Patch("/:id/verify", validators.VerifyPayment(), controllers.VerifyPaymentHandler)
}
