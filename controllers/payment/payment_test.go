package controllers

import (
	"fmt"
	"testing"
	"time"

	"academy/database"
	"academy/models"
	courseModels "academy/models/course"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDb(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("setupTestDb() failed: %v", err)
	}
	database.RunMigrations(db)
	return db
}

// seedCourse creates a priced course with nModules modules of two
// lessons each, plus a student enrolled via the ledger.
func seedCourse(t *testing.T, db *gorm.DB, price float64, nModules int) (models.User, courseModels.Course) {
	t.Helper()

	student := models.User{Name: "Ada Obi", Email: "ada@example.com", Password: "x"}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}

	course := courseModels.Course{
		Title:    "Frontend Development",
		Price:    &price,
		Duration: "4 weeks",
		Status:   "published",
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}

	for m := 1; m <= nModules; m++ {
		module := courseModels.Module{CourseID: course.ID, Title: fmt.Sprintf("Module %d", m), ModuleOrder: m}
		if err := db.Create(&module).Error; err != nil {
			t.Fatalf("create module: %v", err)
		}
		for l := 1; l <= 2; l++ {
			lesson := courseModels.Lesson{
				ModuleID:    module.ID,
				Title:       fmt.Sprintf("Lesson %d.%d", m, l),
				LessonOrder: l,
				Duration:    "30 minutes",
			}
			if err := db.Create(&lesson).Error; err != nil {
				t.Fatalf("create lesson: %v", err)
			}
		}
	}

	ledger := courseModels.StudentCourse{
		StudentID:     student.ID,
		CourseID:      course.ID,
		PaymentStatus: courseModels.LedgerPending,
		TotalModules:  nModules,
	}
	if err := db.Create(&ledger).Error; err != nil {
		t.Fatalf("create ledger: %v", err)
	}

	return student, course
}

func createPayment(t *testing.T, db *gorm.DB, studentID, courseID uint, amount float64) courseModels.Payment {
	t.Helper()
	payment := courseModels.Payment{
		StudentID: studentID,
		CourseID:  courseID,
		Amount:    amount,
		Status:    courseModels.PaymentAwaiting,
		Reference: newPaymentReference(),
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("create payment: %v", err)
	}
	return payment
}

func progressRowCount(t *testing.T, db *gorm.DB, studentID uint) int {
	t.Helper()
	var count int64
	if err := db.Model(&courseModels.Progress{}).Where("student_id = ?", studentID).Count(&count).Error; err != nil {
		t.Fatalf("count progress: %v", err)
	}
	return int(count)
}

func TestVerifyPaymentPartialUnlocksProportionally(t *testing.T) {
	db := setupTestDb(t)
	student, course := seedCourse(t, db, 100, 4) // 25.00 per module

	payment := createPayment(t, db, student.ID, course.ID, 25)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	result, err := VerifyPayment(db, payment.ID, nil, now)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.UnlockedModules)
	assert.Equal(t, courseModels.LedgerPartial, result.PaymentStatus)
	assert.Equal(t, 25.0, result.TotalPaid)

	// a partial payment schedules the next installment from course duration
	assert.NotNil(t, result.NextDueDate)
	assert.Equal(t, now.AddDate(0, 0, 28), *result.NextDueDate)

	// module 1 has two lessons, both seeded not_started
	assert.Equal(t, 2, progressRowCount(t, db, student.ID))

	var ledger courseModels.StudentCourse
	assert.NoError(t, db.Where("student_id = ? AND course_id = ?", student.ID, course.ID).First(&ledger).Error)
	assert.Equal(t, 1, ledger.UnlockedModules)
	assert.Equal(t, 25.0, ledger.PaidAmount)
}

func TestVerifyPaymentCompletesCourse(t *testing.T) {
	db := setupTestDb(t)
	student, course := seedCourse(t, db, 100, 4)
	now := time.Now()

	first := createPayment(t, db, student.ID, course.ID, 25)
	_, err := VerifyPayment(db, first.ID, nil, now)
	assert.NoError(t, err)

	second := createPayment(t, db, student.ID, course.ID, 75)
	result, err := VerifyPayment(db, second.ID, nil, now)
	assert.NoError(t, err)

	assert.Equal(t, 4, result.UnlockedModules)
	assert.Equal(t, courseModels.LedgerPaid, result.PaymentStatus)
	assert.Equal(t, 100.0, result.TotalPaid)
	assert.Nil(t, result.NextDueDate)

	// all 8 lessons now have progress rows
	assert.Equal(t, 8, progressRowCount(t, db, student.ID))
}

func TestVerifyPaymentOverpaymentClamps(t *testing.T) {
	db := setupTestDb(t)
	student, course := seedCourse(t, db, 100, 4)

	payment := createPayment(t, db, student.ID, course.ID, 500)
	result, err := VerifyPayment(db, payment.ID, nil, time.Now())
	assert.NoError(t, err)

	assert.Equal(t, 4, result.UnlockedModules)
	assert.Equal(t, courseModels.LedgerPaid, result.PaymentStatus)
	assert.Equal(t, 8, progressRowCount(t, db, student.ID))
}

func TestVerifyPaymentSeedingIsIdempotent(t *testing.T) {
	db := setupTestDb(t)
	student, course := seedCourse(t, db, 100, 4)
	now := time.Now()

	first := createPayment(t, db, student.ID, course.ID, 100)
	_, err := VerifyPayment(db, first.ID, nil, now)
	assert.NoError(t, err)
	assert.Equal(t, 8, progressRowCount(t, db, student.ID))

	// another verified payment must not duplicate progress rows
	second := createPayment(t, db, student.ID, course.ID, 50)
	result, err := VerifyPayment(db, second.ID, nil, now)
	assert.NoError(t, err)
	assert.Equal(t, 4, result.UnlockedModules)
	assert.Equal(t, 8, progressRowCount(t, db, student.ID))
}

func TestVerifyPaymentRejectsReVerification(t *testing.T) {
	db := setupTestDb(t)
	student, course := seedCourse(t, db, 100, 4)

	payment := createPayment(t, db, student.ID, course.ID, 25)
	_, err := VerifyPayment(db, payment.ID, nil, time.Now())
	assert.NoError(t, err)

	_, err = VerifyPayment(db, payment.ID, nil, time.Now())
	assert.ErrorIs(t, err, ErrAlreadyVerified)

	// total paid must not have double counted
	var ledger courseModels.StudentCourse
	assert.NoError(t, db.Where("student_id = ?", student.ID).First(&ledger).Error)
	assert.Equal(t, 25.0, ledger.PaidAmount)
}

func TestVerifyPaymentRequiresEnrollment(t *testing.T) {
	db := setupTestDb(t)
	student, course := seedCourse(t, db, 100, 4)

	// payment against a course the student never enrolled in
	other := courseModels.Course{Title: "Backend Development", Status: "published"}
	assert.NoError(t, db.Create(&other).Error)

	payment := createPayment(t, db, student.ID, other.ID, 25)
	_ = course

	_, err := VerifyPayment(db, payment.ID, nil, time.Now())
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestVerifyPaymentMissingPayment(t *testing.T) {
	db := setupTestDb(t)

	_, err := VerifyPayment(db, 9999, nil, time.Now())
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestVerifyPaymentUnlockNeverDecreases(t *testing.T) {
	db := setupTestDb(t)
	student, course := seedCourse(t, db, 100, 4)

	first := createPayment(t, db, student.ID, course.ID, 50)
	result, err := VerifyPayment(db, first.ID, nil, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 2, result.UnlockedModules)

	// price raised after the first verification
	newPrice := 1000.0
	assert.NoError(t, db.Model(&course).Update("price", newPrice).Error)

	second := createPayment(t, db, student.ID, course.ID, 10)
	result, err = VerifyPayment(db, second.ID, nil, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 2, result.UnlockedModules)
}

func TestVerifyPaymentUnpricedCourseUnlocksNothing(t *testing.T) {
	db := setupTestDb(t)
	student, course := seedCourse(t, db, 100, 4)
	assert.NoError(t, db.Model(&course).Update("price", nil).Error)

	payment := createPayment(t, db, student.ID, course.ID, 25)
	result, err := VerifyPayment(db, payment.ID, nil, time.Now())
	assert.NoError(t, err)

	assert.Equal(t, 0, result.UnlockedModules)
	assert.Equal(t, 0, progressRowCount(t, db, student.ID))
}

func TestVerifyPaymentAdminAmountOverride(t *testing.T) {
	db := setupTestDb(t)
	student, course := seedCourse(t, db, 100, 4)

	payment := createPayment(t, db, student.ID, course.ID, 25)
	verified := 50.0
	result, err := VerifyPayment(db, payment.ID, &verified, time.Now())
	assert.NoError(t, err)

	assert.Equal(t, 50.0, result.TotalPaid)
	assert.Equal(t, 2, result.UnlockedModules)
}
