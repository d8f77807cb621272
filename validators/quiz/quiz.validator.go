package quizValidator

import (
	"strconv"
	"strings"

	quizController "academy/controllers/quiz"
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

// ModuleIDParam validates the :moduleId route param
func ModuleIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		moduleID, err := strconv.Atoi(strings.TrimSpace(c.Params("moduleId")))
		if err != nil || moduleID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Module ID!", nil)
		}

		c.Locals("moduleID", moduleID)
		return c.Next()
	}
}

// SubmitQuiz validates a quiz submission body
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(quizController.QuizSubmitRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("quizSubmitRequest", *reqData)
		return c.Next()
	}
}

// GradeQuiz validates the :id param and the admin grading body
func GradeQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		resultID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || resultID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz Result ID!", nil)
		}

		reqData := new(quizController.QuizGradeRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("quizResultID", resultID)
		c.Locals("quizGradeRequest", *reqData)
		return c.Next()
	}
}
