package certificateValidator

import (
	"strconv"
	"strings"

	"academy/middleware"

	"github.com/gofiber/fiber/v2"
)

// CertificateIDParam validates the :id route param
func CertificateIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		certificateID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || certificateID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Certificate ID!", nil)
		}

		c.Locals("certificateID", certificateID)
		return c.Next()
	}
}

// CourseIDParam validates the :courseId route param
func CourseIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := strconv.Atoi(strings.TrimSpace(c.Params("courseId")))
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
