package assignmentValidator

import (
	"strconv"
	"strings"

	assignmentController "academy/controllers/assignment"
	"academy/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func validationErrors(err error) map[string]string {
	errors := make(map[string]string)
	for _, fieldErr := range err.(validator.ValidationErrors) {
		errors[strings.ToLower(fieldErr.Field())] = "Invalid value for " + fieldErr.Field() + "!"
	}
	return errors
}

func idParam(c *fiber.Ctx, name, localKey, label string) error {
	id, err := strconv.Atoi(strings.TrimSpace(c.Params(name)))
	if err != nil || id <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
	}

	c.Locals(localKey, id)
	return c.Next()
}

// ModuleIDParam validates the :moduleId route param
func ModuleIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return idParam(c, "moduleId", "moduleID", "Module ID")
	}
}

// AssignmentIDParam validates the :id route param
func AssignmentIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return idParam(c, "id", "assignmentID", "Assignment ID")
	}
}

// ProjectIDParam validates the :id route param
func ProjectIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return idParam(c, "id", "projectID", "Project ID")
	}
}

// GradeSubmission validates the :id param and the admin grading body
func GradeSubmission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		submissionID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || submissionID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Submission ID!", nil)
		}

		reqData := new(assignmentController.AssignmentGradeRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("submissionID", submissionID)
		c.Locals("assignmentGradeRequest", *reqData)
		return c.Next()
	}
}
