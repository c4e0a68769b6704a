package services

import (
	"log"

	"gopkg.in/gomail.v2"

	"gotours/config"
)

func SendEmail(to, subject, body string) error {
	c := config.C

	m := gomail.NewMessage()
	m.SetHeader("From", c.EmailFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(c.SMTPHost, c.SMTPPort, c.SMTPUser, c.SMTPPass)

	if err := d.DialAndSend(m); err != nil {
		log.Printf("Could not send email to %s: %v", to, err)
		return err
	}

	return nil
}

func SendVerificationEmail(to, code string) {
	link := config.C.AppURL + "/api/v1/users/verify/" + code

	body := `<h1>Welcome!</h1>
		<p>Please verify your email address by clicking the link below:</p>
		<a href="` + link + `">Verify Email</a>`

	// Fire and forget, or handle errors gracefully in real prod
	go SendEmail(to, "Verify your email", body)
}

func SendPasswordResetEmail(to, token string) {
	link := config.C.AppURL + "/reset-password/" + token

	body := `<h1>Password Reset Request</h1>
		<p>You requested a password reset. Click the link below to set a new password:</p>
		<a href="` + link + `">Reset Password</a>
		<p>If you did not request this, please ignore this email.</p>`

	go SendEmail(to, "Reset your password", body)
}
