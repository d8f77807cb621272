package paymentValidator

import (
	"strconv"
	"strings"

	paymentController "academy/controllers/payment"
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

// InitPayment validates the payment initialization body (JSON or
// multipart form; an optional receipt file rides alongside the form)
func InitPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(paymentController.PaymentInitRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedPaymentInit", reqData)
		return c.Next()
	}
}

// VerifyPayment validates the payment id param and the optional
// verification body
func VerifyPayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		paymentID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || paymentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Payment ID!", nil)
		}

		reqData := new(paymentController.PaymentVerifyRequest)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
			if err := validate.Struct(reqData); err != nil {
				return middleware.ValidationErrorResponse(c, validationErrors(err))
			}
		}

		c.Locals("paymentID", paymentID)
		c.Locals("validatedPaymentVerify", reqData)
		return c.Next()
	}
}

// PaymentIDParam validates the :id route param
func PaymentIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		paymentID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || paymentID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Payment ID!", nil)
		}

		c.Locals("paymentID", paymentID)
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
