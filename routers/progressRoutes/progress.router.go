package progressRoutes

import (
	controllers "academy/controllers/progress"
	"academy/middleware"
	validators "academy/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// SetupProgressRoutes sets up lesson state transitions and course
// progress snapshots
func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress", middleware.JWTMiddleware)

	progressGroup.Patch("/lesson/:lessonId/start", validators.LessonIDParam(), controllers.StartLesson)
	progressGroup.Patch("/lesson/:lessonId/complete", validators.LessonIDParam(), controllers.MarkLessonCompleted)
	progressGroup.Get("/course/:courseId", validators.CourseIDParam(), controllers.GetCourseProgress)
}
