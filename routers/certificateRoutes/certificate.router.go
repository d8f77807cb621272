package certificateRoutes

import (
	controllers "academy/controllers/certificate"
	"academy/middleware"
	validators "academy/validators/certificate"

	"github.com/gofiber/fiber/v2"
)

// SetupCertificateRoutes sets up certificate issuance and retrieval
func SetupCertificateRoutes(app *fiber.App) {
	certGroup := app.Group("/certificate", middleware.JWTMiddleware)

	certGroup.Post("/course/:courseId/generate", validators.CourseIDParam(), controllers.GenerateCourseCertificate)
	certGroup.Get("/list", controllers.GetMyCertificates)
	certGroup.Get("/:id", validators.CertificateIDParam(), controllers.GetCertificate)

	adminGroup := app.Group("/admin/certificate", middleware.JWTMiddleware, middleware.AdminMiddleware)
	adminGroup.Get("/course/:courseId", validators.CourseIDParam(), controllers.GetCourseCertificates)
}
