package scheduler

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

func seedStudentAndCourse(t *testing.T, db *gorm.DB) (models.User, courseModels.Course) {
	t.Helper()

	student := models.User{Name: "Ada Obi", Email: "ada@example.com", Password: "x"}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}
	course := courseModels.Course{Title: "Frontend Development", Duration: "4 weeks", Status: "published"}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}
	return student, course
}

func seedPayment(t *testing.T, db *gorm.DB, studentID, courseID uint, status string, dueDate *time.Time) courseModels.Payment {
	t.Helper()
	payment := courseModels.Payment{
		StudentID: studentID,
		CourseID:  courseID,
		Amount:    25,
		Status:    status,
		Reference: fmt.Sprintf("PMT-%s-%d", t.Name(), time.Now().UnixNano()),
		DueDate:   dueDate,
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("create payment: %v", err)
	}
	return payment
}

func TestProcessOverduePaymentsDefaultsExactlyOnce(t *testing.T) {
	db := setupTestDb(t)
	student, course := seedStudentAndCourse(t, db)

	now := time.Now()
	overdueAt := now.Add(-24 * time.Hour)
	payment := seedPayment(t, db, student.ID, course.ID, courseModels.PaymentPartial, &overdueAt)

	assert.Equal(t, 1, ProcessOverduePayments(db, now))

	var updated courseModels.Payment
	assert.NoError(t, db.First(&updated, payment.ID).Error)
	assert.Equal(t, courseModels.PaymentDefaulted, updated.Status)

	var notifications int64
	db.Model(&models.Notification{}).
		Where("student_id = ? AND title = ?", student.ID, "Payment Defaulted").Count(&notifications)
	assert.Equal(t, int64(1), notifications)

	// a defaulted payment never matches the sweep again
	assert.Equal(t, 0, ProcessOverduePayments(db, now))
	db.Model(&models.Notification{}).
		Where("student_id = ? AND title = ?", student.ID, "Payment Defaulted").Count(&notifications)
	assert.Equal(t, int64(1), notifications)
}

func TestProcessOverduePaymentsLeavesOthersAlone(t *testing.T) {
	db := setupTestDb(t)
	student, course := seedStudentAndCourse(t, db)
	now := time.Now()

	future := now.Add(48 * time.Hour)
	notYetDue := seedPayment(t, db, student.ID, course.ID, courseModels.PaymentAwaiting, &future)

	past := now.Add(-48 * time.Hour)
	alreadyPaid := seedPayment(t, db, student.ID, course.ID, courseModels.PaymentCompleted, &past)

	noDueDate := seedPayment(t, db, student.ID, course.ID, courseModels.PaymentAwaiting, nil)

	assert.Equal(t, 0, ProcessOverduePayments(db, now))

	for _, id := range []uint{notYetDue.ID, alreadyPaid.ID, noDueDate.ID} {
		var p courseModels.Payment
		assert.NoError(t, db.First(&p, id).Error)
		assert.NotEqual(t, courseModels.PaymentDefaulted, p.Status)
	}
}

func TestProcessPaymentRemindersWindow(t *testing.T) {
	db := setupTestDb(t)
	student, course := seedStudentAndCourse(t, db)
	now := time.Now()

	inWindow := now.Add(48 * time.Hour)
	seedPayment(t, db, student.ID, course.ID, courseModels.PaymentPartial, &inWindow)

	beyondWindow := now.Add(5 * 24 * time.Hour)
	seedPayment(t, db, student.ID, course.ID, courseModels.PaymentAwaiting, &beyondWindow)

	alreadyOverdue := now.Add(-2 * time.Hour)
	seedPayment(t, db, student.ID, course.ID, courseModels.PaymentAwaiting, &alreadyOverdue)

	assert.Equal(t, 1, ProcessPaymentReminders(db, now))

	var notifications int64
	db.Model(&models.Notification{}).
		Where("student_id = ? AND title = ?", student.ID, "Payment Due Soon").Count(&notifications)
	assert.Equal(t, int64(1), notifications)

	// reminders do not change payment state
	var defaulted int64
	db.Model(&courseModels.Payment{}).
		Where("status = ?", courseModels.PaymentDefaulted).Count(&defaulted)
	assert.Equal(t, int64(0), defaulted)
}

func seedProgress(t *testing.T, db *gorm.DB, studentID uint, courseID uint, lessonDuration, status string, lastActivity time.Time) courseModels.Progress {
	t.Helper()

	module := courseModels.Module{CourseID: courseID, Title: "Module", ModuleOrder: 1}
	if err := db.Create(&module).Error; err != nil {
		t.Fatalf("create module: %v", err)
	}
	lesson := courseModels.Lesson{ModuleID: module.ID, Title: "Lesson", LessonOrder: 1, Duration: lessonDuration}
	if err := db.Create(&lesson).Error; err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	progress := courseModels.Progress{StudentID: studentID, LessonID: lesson.ID, Status: status}
	if err := db.Create(&progress).Error; err != nil {
		t.Fatalf("create progress: %v", err)
	}
	// bypass gorm's auto-touch to simulate old activity
	if err := db.Model(&courseModels.Progress{}).Where("id = ?", progress.ID).
		UpdateColumn("updated_at", lastActivity).Error; err != nil {
		t.Fatalf("backdate progress: %v", err)
	}
	return progress
}

func TestProcessLessonOverstays(t *testing.T) {
	db := setupTestDb(t)
	student, course := seedStudentAndCourse(t, db)
	now := time.Now()

	stale := seedProgress(t, db, student.ID, course.ID, "30 minutes", courseModels.ProgressStarted, now.Add(-2*time.Hour))
	fresh := seedProgress(t, db, student.ID, course.ID, "30 minutes", courseModels.ProgressStarted, now.Add(-10*time.Minute))
	unparsable := seedProgress(t, db, student.ID, course.ID, "self paced", courseModels.ProgressStarted, now.Add(-48*time.Hour))
	done := seedProgress(t, db, student.ID, course.ID, "30 minutes", courseModels.ProgressCompleted, now.Add(-48*time.Hour))

	assert.Equal(t, 1, ProcessLessonOverstays(db, now))

	statusOf := func(id uint) string {
		var p courseModels.Progress
		if err := db.First(&p, id).Error; err != nil {
			t.Fatalf("fetch progress %d: %v", id, err)
		}
		return p.Status
	}

	assert.Equal(t, courseModels.ProgressOverStayed, statusOf(stale.ID))
	assert.Equal(t, courseModels.ProgressStarted, statusOf(fresh.ID))
	assert.Equal(t, courseModels.ProgressStarted, statusOf(unparsable.ID))
	assert.Equal(t, courseModels.ProgressCompleted, statusOf(done.ID))

	// only the flagged row produces a notification
	var notifications int64
	db.Model(&models.Notification{}).
		Where("student_id = ? AND title = ?", student.ID, "Lesson Over-Stayed").Count(&notifications)
	assert.Equal(t, int64(1), notifications)

	// an already-flagged row is not started anymore, so no re-flag
	assert.Equal(t, 0, ProcessLessonOverstays(db, now))
	db.Model(&models.Notification{}).
		Where("student_id = ? AND title = ?", student.ID, "Lesson Over-Stayed").Count(&notifications)
	assert.Equal(t, int64(1), notifications)
}
