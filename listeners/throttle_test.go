package listeners

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmailThrottleCapsPerRecipient(t *testing.T) {
	throttle := NewEmailThrottle(3, time.Minute)
	now := time.Now()

	assert.True(t, throttle.Allow("ada@example.com", now))
	assert.True(t, throttle.Allow("ada@example.com", now.Add(time.Second)))
	assert.True(t, throttle.Allow("ada@example.com", now.Add(2*time.Second)))

	// fourth email inside the window is dropped
	assert.False(t, throttle.Allow("ada@example.com", now.Add(3*time.Second)))

	// other recipients are unaffected
	assert.True(t, throttle.Allow("obi@example.com", now.Add(3*time.Second)))
}

func TestEmailThrottleWindowSlides(t *testing.T) {
	throttle := NewEmailThrottle(3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		assert.True(t, throttle.Allow("ada@example.com", now.Add(time.Duration(i)*time.Second)))
	}
	assert.False(t, throttle.Allow("ada@example.com", now.Add(30*time.Second)))

	// once the first send ages out, capacity frees up
	assert.True(t, throttle.Allow("ada@example.com", now.Add(61*time.Second)))
}

func TestListenerSendsVerifiedEmail(t *testing.T) {
	var gotTo []string
	var gotSubject string
	restore := sendEmail
	sendEmail = func(to []string, subject, body string) error {
		gotTo = to
		gotSubject = subject
		return nil
	}
	defer func() { sendEmail = restore }()

	handle(PaymentVerifiedEvent{
		Email:           "ada@example.com",
		CourseTitle:     "Frontend Development",
		PaymentStatus:   "part_payment",
		UnlockedModules: 2,
	})

	assert.Equal(t, []string{"ada@example.com"}, gotTo)
	assert.NotEmpty(t, gotSubject)
}

func TestListenerDropsThrottledEmails(t *testing.T) {
	sent := 0
	restore := sendEmail
	sendEmail = func(to []string, subject, body string) error {
		sent++
		return nil
	}
	defer func() { sendEmail = restore }()

	// one recipient hammered past the cap
	for i := 0; i < 5; i++ {
		handle(PaymentDefaultedEvent{Email: "spam@example.com", CourseTitle: "Frontend Development"})
	}

	assert.Equal(t, 3, sent)
}
