package quizRoutes

import (
	controllers "academy/controllers/quiz"
	"academy/middleware"
	validators "academy/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up quiz listing, submission and grading
func SetupQuizRoutes(app *fiber.App) {
	quizGroup := app.Group("/quiz", middleware.JWTMiddleware)

	quizGroup.Get("/module/:moduleId", validators.ModuleIDParam(), controllers.GetModuleQuizzes)
	quizGroup.Post("/submit", validators.SubmitQuiz(), controllers.SubmitQuiz)
	quizGroup.Get("/module/:moduleId/result", validators.ModuleIDParam(), controllers.GetQuizResult)

	adminGroup := app.Group("/admin/quiz", middleware.JWTMiddleware, middleware.AdminMiddleware)
	adminGroup.Patch("/result/:id/grade", validators.GradeQuiz(), controllers.GradeQuiz)
}
