package listeners

import (
	"log"
	"time"

	"academy/utils"
)

// Payment lifecycle events fan out to email on a separate goroutine so
// provider latency or failure never blocks the domain transaction that
// raised them.

type PaymentVerifiedEvent struct {
	Email           string
	CourseTitle     string
	PaymentStatus   string
	UnlockedModules int
}

type PaymentDefaultedEvent struct {
	Email       string
	CourseTitle string
}

type PaymentReminderEvent struct {
	Email       string
	CourseTitle string
	DueDate     time.Time
}

var (
	events = make(chan interface{}, 256)

	// swapped out in tests
	sendEmail = utils.SendEmail

	throttle = NewEmailThrottle(3, time.Minute)
)

// Publish hands an event to the email worker. The queue is best-effort:
// when it is full the event is dropped, never blocking the caller.
func Publish(event interface{}) {
	select {
	case events <- event:
	default:
		log.Printf("[PAYMENT-LISTENER] Event queue full, dropping %T", event)
	}
}

// Start launches the email worker goroutine.
func Start() {
	log.Println("[PAYMENT-LISTENER] Payment email listener started")
	go func() {
		for event := range events {
			handle(event)
		}
	}()
}

func handle(event interface{}) {
	switch e := event.(type) {
	case PaymentVerifiedEvent:
		if !throttle.Allow(e.Email, time.Now()) {
			log.Printf("[PAYMENT-LISTENER] Email throttled for %s", e.Email)
			return
		}
		subject, html := utils.PaymentVerifiedEmailBody(e.CourseTitle, e.PaymentStatus, e.UnlockedModules)
		if err := sendEmail([]string{e.Email}, subject, html); err != nil {
			log.Printf("[PAYMENT-LISTENER] Verified email error for %s: %v", e.Email, err)
		}

	case PaymentDefaultedEvent:
		if !throttle.Allow(e.Email, time.Now()) {
			log.Printf("[PAYMENT-LISTENER] Email throttled for %s", e.Email)
			return
		}
		subject, html := utils.PaymentDefaultedEmailBody(e.CourseTitle)
		if err := sendEmail([]string{e.Email}, subject, html); err != nil {
			log.Printf("[PAYMENT-LISTENER] Defaulted email error for %s: %v", e.Email, err)
		}

	case PaymentReminderEvent:
		if !throttle.Allow(e.Email, time.Now()) {
			log.Printf("[PAYMENT-LISTENER] Email throttled for %s", e.Email)
			return
		}
		subject, html := utils.PaymentReminderEmailBody(e.CourseTitle, e.DueDate)
		if err := sendEmail([]string{e.Email}, subject, html); err != nil {
			log.Printf("[PAYMENT-LISTENER] Reminder email error for %s: %v", e.Email, err)
		}

	default:
		log.Printf("[PAYMENT-LISTENER] Unknown event %T", event)
	}
}
