package scheduler

import (
	"log"
	"time"

	notificationController "academy/controllers/notification"
	"academy/database"
	"academy/listeners"
	"academy/models"
	courseModels "academy/models/course"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// InitializeSchedulers starts the periodic sweeps: a daily pass over
// payment due dates and a frequent pass over lesson overstays.
func InitializeSchedulers() {
	log.Println("[PAYMENT-SCHEDULER] Initializing schedulers...")

	c := cron.New()

	// Daily at 9 AM: overdue payments default, near-due payments remind
	c.AddFunc("0 9 * * *", func() {
		log.Println("[PAYMENT-SCHEDULER] Running daily payment sweep...")
		db := database.Database.Db
		now := time.Now()
		ProcessOverduePayments(db, now)
		ProcessPaymentReminders(db, now)
	})

	// Every 10 minutes: flag lessons left in started past their duration
	c.AddFunc("*/10 * * * *", func() {
		ProcessLessonOverstays(database.Database.Db, time.Now())
	})

	c.Start()
	log.Println("[PAYMENT-SCHEDULER] Schedulers started")
}

// ProcessOverduePayments transitions every overdue awaiting/part payment
// to defaulted and notifies the student. Each payment is handled
// independently; one failure never aborts the batch. Returns the number
// of payments defaulted.
func ProcessOverduePayments(db *gorm.DB, now time.Time) int {
	var overdue []courseModels.Payment
	if err := db.Where("status IN ? AND due_date IS NOT NULL AND due_date < ?",
		[]string{courseModels.PaymentAwaiting, courseModels.PaymentPartial}, now).
		Find(&overdue).Error; err != nil {
		log.Printf("[PAYMENT-SCHEDULER] Error fetching overdue payments: %v", err)
		return 0
	}

	defaulted := 0
	for _, payment := range overdue {
		if err := db.Model(&courseModels.Payment{}).
			Where("id = ?", payment.ID).
			Update("status", courseModels.PaymentDefaulted).Error; err != nil {
			log.Printf("[PAYMENT-SCHEDULER] Error defaulting payment %d: %v", payment.ID, err)
			continue
		}
		defaulted++

		var course courseModels.Course
		db.First(&course, payment.CourseID)

		if _, err := notificationController.Send(db, payment.StudentID,
			"Payment Defaulted",
			"Your payment for \""+course.Title+"\" has been marked as defaulted. This may affect your course access and progression."); err != nil {
			log.Printf("[PAYMENT-SCHEDULER] Error notifying student %d: %v", payment.StudentID, err)
		}

		var student models.User
		if err := db.First(&student, payment.StudentID).Error; err != nil {
			log.Printf("[PAYMENT-SCHEDULER] Error fetching student %d: %v", payment.StudentID, err)
			continue
		}
		listeners.Publish(listeners.PaymentDefaultedEvent{
			Email:       student.Email,
			CourseTitle: course.Title,
		})
	}

	if defaulted > 0 {
		log.Printf("[PAYMENT-SCHEDULER] Defaulted %d overdue payments", defaulted)
	}
	return defaulted
}

// reminderWindow is how far ahead of a due date reminders start firing
const reminderWindow = 3 * 24 * time.Hour

// ProcessPaymentReminders emits a reminder for every awaiting/part
// payment whose due date falls within the next three days. Not
// state-changing. Returns the number of reminders emitted.
func ProcessPaymentReminders(db *gorm.DB, now time.Time) int {
	var nearDue []courseModels.Payment
	if err := db.Where("status IN ? AND due_date IS NOT NULL AND due_date >= ? AND due_date <= ?",
		[]string{courseModels.PaymentAwaiting, courseModels.PaymentPartial}, now, now.Add(reminderWindow)).
		Find(&nearDue).Error; err != nil {
		log.Printf("[PAYMENT-SCHEDULER] Error fetching near-due payments: %v", err)
		return 0
	}

	reminded := 0
	for _, payment := range nearDue {
		var course courseModels.Course
		db.First(&course, payment.CourseID)

		if _, err := notificationController.Send(db, payment.StudentID,
			"Payment Due Soon",
			"Your next installment for \""+course.Title+"\" is due on "+payment.DueDate.Format("January 2, 2006")+"."); err != nil {
			log.Printf("[PAYMENT-SCHEDULER] Error notifying student %d: %v", payment.StudentID, err)
			continue
		}
		reminded++

		var student models.User
		if err := db.First(&student, payment.StudentID).Error; err != nil {
			continue
		}
		listeners.Publish(listeners.PaymentReminderEvent{
			Email:       student.Email,
			CourseTitle: course.Title,
			DueDate:     *payment.DueDate,
		})
	}

	return reminded
}
