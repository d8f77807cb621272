package utils

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"academy/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Qodebyte Academy <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all academy emails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #2D3748; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #2D3748; line-height: 1.6; }
			.content h2 { color: #2D3748; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #667eea; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>QODEBYTE ACADEMY</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Qodebyte Academy. All rights reserved.<br>
				Need help? Contact support@qodebyte.com.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to Qodebyte Academy"
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your student account has been successfully created at <strong>Qodebyte Academy</strong>.</p>
		<p>Browse the catalog, enroll in a course and start learning right away.</p>
	`, name)

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

// 2. Payment initialized (awaiting admin verification)
func SendPaymentInitEmail(email, courseTitle string, amount float64, reference string) {
	subject := "Payment Initiated - Pending Verification"
	body := fmt.Sprintf(`
		<p>Your payment of <strong>NGN %.2f</strong> for <strong>%s</strong> has been received and is awaiting verification.</p>
		<div class="info-box">
			<strong>Reference:</strong> %s
		</div>
		<p>You will get another email once verification is complete. This usually takes a few minutes.</p>
	`, amount, courseTitle, reference)

	go SendEmail([]string{email}, subject, getEmailTemplate("Payment Successfully Initiated", body))
}

// PaymentVerifiedEmailBody builds the verification email; sending goes
// through the listener bus so provider latency never touches the
// verification transaction.
func PaymentVerifiedEmailBody(courseTitle, paymentStatus string, unlockedModules int) (subject, html string) {
	subject = "Payment Verified: " + courseTitle
	var line string
	if paymentStatus == "paid" {
		line = fmt.Sprintf("Your payment for <strong>%s</strong> is complete. All modules are now unlocked.", courseTitle)
	} else {
		line = fmt.Sprintf("Your payment for <strong>%s</strong> was verified. You now have access to <strong>%d</strong> module(s).", courseTitle, unlockedModules)
	}
	body := fmt.Sprintf(`
		<p>%s</p>
		<div class="info-box">Head to your dashboard to continue learning.</div>
	`, line)
	return subject, getEmailTemplate("Payment Verified", body)
}

// PaymentReminderEmailBody builds the near-due-date reminder email.
func PaymentReminderEmailBody(courseTitle string, dueDate time.Time) (subject, html string) {
	subject = "Installment Due Soon: " + courseTitle
	body := fmt.Sprintf(`
		<p>Your next installment for <strong>%s</strong> is due on <strong>%s</strong>.</p>
		<p>Pay before the due date to keep your course access in good standing.</p>
	`, courseTitle, dueDate.Format("January 2, 2006"))
	return subject, getEmailTemplate("Payment Reminder", body)
}

// PaymentDefaultedEmailBody builds the overdue-payment email.
func PaymentDefaultedEmailBody(courseTitle string) (subject, html string) {
	subject = "Payment Defaulted: " + courseTitle
	body := fmt.Sprintf(`
		<p>Your payment for <strong>%s</strong> has been marked as defaulted. This may affect your course access and progression.</p>
		<p>Please settle the outstanding balance to continue unlocking modules.</p>
	`, courseTitle)
	return subject, getEmailTemplate("Payment Defaulted", body)
}

// 6. Certificate issued
func SendCertificateEmail(email, name, courseTitle, fileURL string) {
	subject := "Your Certificate is Ready!"
	body := fmt.Sprintf(`
		<p>Congratulations %s!</p>
		<p>You have completed <strong>%s</strong> and earned your certificate.</p>
		<div class="info-box"><a href="%s">Download your certificate</a></div>
	`, name, courseTitle, fileURL)

	go SendEmail([]string{email}, subject, getEmailTemplate("Course Completed", body))
}
