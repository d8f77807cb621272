package courseRoutes

import (
	controllers "academy/controllers/course"
	"academy/middleware"
	validators "academy/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the catalog routes, public listing plus
// admin management
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog (published courses)
	courseGroup.Get("/list", controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.GetCourseDetails)

	// Admin catalog management
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, middleware.AdminMiddleware)
	adminGroup.Post("/create", validators.CreateCourse(), controllers.CreateCourse)
	adminGroup.Put("/:id", validators.UpdateCourse(), controllers.UpdateCourse)
	adminGroup.Delete("/:id", validators.CourseIDParam(), controllers.DeleteCourse)
	adminGroup.Post("/module/create", validators.CreateModule(), controllers.CreateModule)
	adminGroup.Post("/lesson/create", validators.CreateLesson(), controllers.CreateLesson)
}
