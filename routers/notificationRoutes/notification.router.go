package notificationRoutes

import (
	controllers "academy/controllers/notification"
	"academy/middleware"
	validators "academy/validators/notification"

	"github.com/gofiber/fiber/v2"
)

// SetupNotificationRoutes sets up the in-app notification feed
func SetupNotificationRoutes(app *fiber.App) {
	notificationGroup := app.Group("/notification", middleware.JWTMiddleware)

	notificationGroup.Get("/list", controllers.GetMyNotifications)
	notificationGroup.Patch("/read/all", controllers.MarkAllNotificationsRead)
	notificationGroup.Patch("/:id/read", validators.NotificationIDParam(), controllers.MarkNotificationRead)
}
