package controllers

import (
	"math"
	"sort"

	"academy/database"
	"academy/middleware"
	courseModels "academy/models/course"
	"academy/utils"

	"github.com/gofiber/fiber/v2"
)

// PaymentInitRequest is the validated body for payment initialization.
type PaymentInitRequest struct {
	CourseID      uint    `json:"course_id" form:"course_id" validate:"required"`
	Amount        float64 `json:"amount" form:"amount" validate:"required,gt=0"`
	Installment   bool    `json:"installment" form:"installment"`
	PaymentMethod string  `json:"payment_method" form:"payment_method"`
}

// PaymentVerifyRequest is the validated body for admin verification.
type PaymentVerifyRequest struct {
	AmountVerified *float64 `json:"amount_verified" validate:"omitempty,gt=0"`
}

// GetStudentPayments lists the current student's payments with pagination
func GetStudentPayments(c *fiber.Ctx) error {
	studentID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	db := database.Database.Db.Model(&courseModels.Payment{}).Where("student_id = ?", studentID)
	if courseID := c.QueryInt("course_id", 0); courseID > 0 {
		db = db.Where("course_id = ?", courseID)
	}
	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var payments []courseModels.Payment
	if err := db.Preload("Course").Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", fiber.Map{
		"payments": payments,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// GetAllPayments lists payments across students (admin)
func GetAllPayments(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 50)
	if limit < 1 {
		limit = 1
	}
	if limit > 200 {
		limit = 200
	}

	db := database.Database.Db.Model(&courseModels.Payment{})
	if courseID := c.QueryInt("course_id", 0); courseID > 0 {
		db = db.Where("course_id = ?", courseID)
	}
	if studentID := c.QueryInt("student_id", 0); studentID > 0 {
		db = db.Where("student_id = ?", studentID)
	}
	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var payments []courseModels.Payment
	if err := db.Preload("Course").Preload("Student").Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", fiber.Map{
		"payments": payments,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// GetPaymentByID fetches a single payment
func GetPaymentByID(c *fiber.Ctx) error {
	paymentID := c.Locals("paymentID").(int)

	var payment courseModels.Payment
	if err := database.Database.Db.Preload("Course").First(&payment, paymentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment fetched successfully!", payment)
}

// GetRemainingBalance reports how much of the course price is still unpaid
// and which installment is due next.
func GetRemainingBalance(c *fiber.Ctx) error {
	studentID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var studentCourse courseModels.StudentCourse
	if err := database.Database.Db.Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&studentCourse).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not enrolled in this course!", nil)
	}

	var payments []courseModels.Payment
	if err := database.Database.Db.Where("student_id = ? AND course_id = ? AND status IN ?",
		studentID, courseID,
		[]string{courseModels.PaymentCompleted, courseModels.PaymentPartial}).
		Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	totalPaid := 0.0
	for _, p := range payments {
		totalPaid += p.Amount
	}

	totalPrice := 0.0
	if course.Price != nil {
		totalPrice = *course.Price
	}
	remaining := totalPrice - totalPaid
	if remaining < 0 {
		remaining = 0
	}

	pricePerModuleKobo := utils.PricePerModuleKobo(utils.ToKobo(totalPrice), studentCourse.TotalModules)
	unlocked := utils.UnlockedModuleCount(utils.ToKobo(totalPaid), pricePerModuleKobo, studentCourse.TotalModules)

	// earliest-due unpaid installment
	var nextDue *courseModels.Payment
	installments := make([]courseModels.Payment, 0)
	for _, p := range payments {
		if p.Status != courseModels.PaymentCompleted && p.Installment && p.DueDate != nil {
			installments = append(installments, p)
		}
	}
	sort.Slice(installments, func(i, j int) bool {
		return installments[i].DueDate.Before(*installments[j].DueDate)
	})
	if len(installments) > 0 {
		nextDue = &installments[0]
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Balance fetched successfully!", fiber.Map{
		"course": fiber.Map{
			"course_id":   course.ID,
			"title":       course.Title,
			"total_price": totalPrice,
		},
		"student_course": fiber.Map{
			"paid_amount":      totalPaid,
			"unlocked_modules": unlocked,
			"payment_status":   studentCourse.PaymentStatus,
			"total_modules":    studentCourse.TotalModules,
		},
		"remaining_amount": math.Round(remaining*100) / 100,
		"next_due_payment": nextDue,
	})
}
