package assignmentRoutes

import (
	controllers "academy/controllers/assignment"
	"academy/middleware"
	validators "academy/validators/assignment"

	"github.com/gofiber/fiber/v2"
)

// SetupAssignmentRoutes sets up assignment and project submission and
// grading
func SetupAssignmentRoutes(app *fiber.App) {
	assignmentGroup := app.Group("/assignment", middleware.JWTMiddleware)

	assignmentGroup.Get("/module/:moduleId", validators.ModuleIDParam(), controllers.GetAssignmentsByModule)
	assignmentGroup.Post("/:id/submit", validators.AssignmentIDParam(), controllers.SubmitAssignment)
	assignmentGroup.Post("/project/:id/submit", validators.ProjectIDParam(), controllers.SubmitProject)

	adminGroup := app.Group("/admin/assignment", middleware.JWTMiddleware, middleware.AdminMiddleware)
	adminGroup.Patch("/submission/:id/grade", validators.GradeSubmission(), controllers.GradeAssignmentSubmission)
	adminGroup.Patch("/project/submission/:id/grade", validators.GradeSubmission(), controllers.GradeProjectSubmission)
}
