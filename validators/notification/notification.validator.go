package notificationValidator

import (
	"strconv"
	"strings"

	"academy/middleware"

	"github.com/gofiber/fiber/v2"
)

// NotificationIDParam validates the :id route param
func NotificationIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		notificationID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || notificationID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Notification ID!", nil)
		}

		c.Locals("notificationID", notificationID)
		return c.Next()
	}
}
