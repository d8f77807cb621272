package controllers

import (
	"errors"
	"io"
	"log"
	"strings"
	"time"

	notificationController "academy/controllers/notification"
	progressController "academy/controllers/progress"
	"academy/database"
	"academy/listeners"
	"academy/middleware"
	"academy/models"
	courseModels "academy/models/course"
	"academy/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrAlreadyVerified = errors.New("payment already verified")
	ErrNotEnrolled     = errors.New("student not enrolled in this course")
)

// VerifyResult is the outcome of a payment verification.
type VerifyResult struct {
	Payment            courseModels.Payment `json:"payment"`
	TotalPaid          float64              `json:"total_paid"`
	UnlockedModules    int                  `json:"unlocked_modules"`
	PreviouslyUnlocked int                  `json:"-"`
	PaymentStatus      string               `json:"payment_status"`
	NextDueDate        *time.Time           `json:"next_due_date"`
	CourseTitle        string               `json:"-"`
}

// VerifyPayment is the transactional unlock engine (admin verification).
// It marks the payment completed, recomputes the cumulative paid amount
// from the full payment history, converts it to an unlocked module count
// in kobo, seeds progress for every newly unlocked module and updates the
// enrollment ledger. Runs entirely inside tx; the caller owns
// commit/rollback.
func VerifyPayment(tx *gorm.DB, paymentID uint, amountVerified *float64, now time.Time) (*VerifyResult, error) {
	var payment courseModels.Payment
	if err := tx.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.Status == courseModels.PaymentCompleted {
		// re-verifying would double count the amount
		return nil, ErrAlreadyVerified
	}

	verifiedAmount := payment.Amount
	if amountVerified != nil {
		verifiedAmount = *amountVerified
	}

	payment.Status = courseModels.PaymentCompleted
	payment.Amount = verifiedAmount
	if err := tx.Save(&payment).Error; err != nil {
		return nil, err
	}

	var studentCourse courseModels.StudentCourse
	if err := tx.Where("student_id = ? AND course_id = ?", payment.StudentID, payment.CourseID).
		First(&studentCourse).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}
	previouslyUnlocked := studentCourse.UnlockedModules

	var course courseModels.Course
	if err := tx.First(&course, payment.CourseID).Error; err != nil {
		return nil, err
	}

	// module count is re-queried, not read from the ledger snapshot, so
	// catalog edits are honored retroactively
	var totalModules64 int64
	if err := tx.Model(&courseModels.Module{}).
		Where("course_id = ?", payment.CourseID).Count(&totalModules64).Error; err != nil {
		return nil, err
	}
	totalModules := int(totalModules64)

	// recompute the cumulative total from durable payment rows rather
	// than incrementing the ledger, making the ledger self-healing
	var countablePayments []courseModels.Payment
	if err := tx.Where("student_id = ? AND course_id = ? AND status IN ?",
		payment.StudentID, payment.CourseID,
		[]string{courseModels.PaymentCompleted, courseModels.PaymentPartial}).
		Find(&countablePayments).Error; err != nil {
		return nil, err
	}
	totalPaid := 0.0
	for _, p := range countablePayments {
		totalPaid += p.Amount
	}

	coursePrice := 0.0
	if course.Price != nil {
		coursePrice = *course.Price
	}
	pricePerModuleKobo := utils.PricePerModuleKobo(utils.ToKobo(coursePrice), totalModules)
	unlockedModules := utils.UnlockedModuleCount(utils.ToKobo(totalPaid), pricePerModuleKobo, totalModules)

	// unlocked module count never decreases, even if the catalog price
	// was raised after earlier verifications
	if unlockedModules < previouslyUnlocked {
		unlockedModules = previouslyUnlocked
	}

	for moduleNum := previouslyUnlocked + 1; moduleNum <= unlockedModules; moduleNum++ {
		if err := progressController.SeedModuleProgress(tx, payment.StudentID, payment.CourseID, moduleNum); err != nil {
			return nil, err
		}
	}

	paymentStatus := utils.PaymentStatusForUnlock(unlockedModules, totalModules)

	studentCourse.PaidAmount = totalPaid
	studentCourse.UnlockedModules = unlockedModules
	studentCourse.PaymentStatus = paymentStatus
	if err := tx.Save(&studentCourse).Error; err != nil {
		return nil, err
	}

	var nextDueDate *time.Time
	if paymentStatus == courseModels.LedgerPartial {
		due := utils.NextDueDate(now, course.Duration)
		nextDueDate = &due
		payment.DueDate = nextDueDate
		if err := tx.Save(&payment).Error; err != nil {
			return nil, err
		}
	}

	return &VerifyResult{
		Payment:            payment,
		TotalPaid:          totalPaid,
		UnlockedModules:    unlockedModules,
		PreviouslyUnlocked: previouslyUnlocked,
		PaymentStatus:      paymentStatus,
		NextDueDate:        nextDueDate,
		CourseTitle:        course.Title,
	}, nil
}

// newPaymentReference builds a human-readable unique payment reference
func newPaymentReference() string {
	return "PMT-" + strings.ToUpper(strings.Split(uuid.NewString(), "-")[0])
}

// InitializePayment records a payment attempt awaiting admin verification,
// creating the enrollment ledger on first contact with the course.
func InitializePayment(c *fiber.Ctx) error {
	studentID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedPaymentInit").(*PaymentInitRequest)

	var student models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", studentID, false).First(&student).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var modulesCount int64
	database.Database.Db.Model(&courseModels.Module{}).Where("course_id = ?", reqData.CourseID).Count(&modulesCount)

	// optional receipt upload
	receiptURL := ""
	if fileHeader, err := c.FormFile("receipt"); err == nil && fileHeader != nil {
		src, err := fileHeader.Open()
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to read receipt file!", nil)
		}
		buf, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to read receipt file!", nil)
		}
		url, _, err := utils.UploadToCloudinary(buf, fileHeader.Filename)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Receipt upload failed!", nil)
		}
		receiptURL = url
	}

	paymentType := "full"
	if reqData.Installment {
		paymentType = "installment"
	}

	var payment courseModels.Payment
	var studentCourse courseModels.StudentCourse
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ? AND course_id = ?", studentID, reqData.CourseID).
			First(&studentCourse).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			studentCourse = courseModels.StudentCourse{
				StudentID:     studentID,
				CourseID:      reqData.CourseID,
				TotalModules:  int(modulesCount),
				PaymentType:   paymentType,
				PaymentStatus: courseModels.LedgerPending,
			}
			if err := tx.Create(&studentCourse).Error; err != nil {
				return err
			}
		}

		payment = courseModels.Payment{
			StudentID:     studentID,
			CourseID:      reqData.CourseID,
			Amount:        reqData.Amount,
			PaymentMethod: reqData.PaymentMethod,
			Status:        courseModels.PaymentAwaiting,
			Reference:     newPaymentReference(),
			Installment:   reqData.Installment,
			Receipt:       receiptURL,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to initialize payment!", nil)
	}

	utils.SendPaymentInitEmail(student.Email, course.Title, payment.Amount, payment.Reference)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment initialized. Awaiting admin verification!", fiber.Map{
		"payment":             payment,
		"current_paid_amount": studentCourse.PaidAmount,
		"unlocked_modules":    studentCourse.UnlockedModules,
	})
}

// VerifyPaymentHandler lets an admin confirm a payment, unlocking modules
func VerifyPaymentHandler(c *fiber.Ctx) error {
	paymentID := c.Locals("paymentID").(int)
	reqData := c.Locals("validatedPaymentVerify").(*PaymentVerifyRequest)

	var result *VerifyResult
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = VerifyPayment(tx, uint(paymentID), reqData.AmountVerified, time.Now())
		return txErr
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPaymentNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Payment not found!", nil)
		case errors.Is(err, ErrAlreadyVerified):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payment already verified!", nil)
		case errors.Is(err, ErrNotEnrolled):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not enrolled in this course!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify payment!", nil)
		}
	}

	message := "Your payment for \"" + result.CourseTitle + "\" was verified."
	if result.PaymentStatus == courseModels.LedgerPaid {
		message = "Your payment for \"" + result.CourseTitle + "\" is complete. All modules have been unlocked."
	}
	if _, err := notificationController.Send(database.Database.Db, result.Payment.StudentID, "Course Enrollment Successful", message); err != nil {
		log.Printf("[PAYMENT] Error notifying student %d: %v", result.Payment.StudentID, err)
	}

	var student models.User
	if err := database.Database.Db.First(&student, result.Payment.StudentID).Error; err == nil {
		listeners.Publish(listeners.PaymentVerifiedEvent{
			Email:           student.Email,
			CourseTitle:     result.CourseTitle,
			PaymentStatus:   result.PaymentStatus,
			UnlockedModules: result.UnlockedModules,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified successfully!", result)
}
