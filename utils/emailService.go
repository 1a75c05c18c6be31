package utils

import (
	"fmt"
	"log"

	"coursebox/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail sends an HTML mail through SendGrid. Failures are logged and
// returned; callers treat mail as best effort.
func SendEmail(toName, toEmail, subject, htmlBody string) error {
	if config.AppConfig.SendgridAPIKey == "" {
		log.Printf("[EMAIL] SendGrid not configured, skipping mail %q to %s", subject, toEmail)
		return nil
	}

	from := mail.NewEmail("Coursebox", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendgridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[EMAIL] Error sending %q to %s: %v", subject, toEmail, err)
		return err
	}
	if resp.StatusCode >= 300 {
		log.Printf("[EMAIL] SendGrid rejected %q to %s: %d %s", subject, toEmail, resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// SendCertificateIssuedEmail notifies a learner their certificate is ready
func SendCertificateIssuedEmail(toName, toEmail, courseTitle, code, documentURL string) error {
	subject := "Your certificate for " + courseTitle
	body := emailShell("Certificate issued", fmt.Sprintf(`
		<h2>Congratulations, %s!</h2>
		<p>You have completed <strong>%s</strong> and your certificate has been issued.</p>
		<div class="info-box">Verification code: <strong>%s</strong></div>
		<a class="btn" href="%s">View your certificate</a>`,
		toName, courseTitle, code, documentURL))
	return SendEmail(toName, toEmail, subject, body)
}

// SendEnrollmentApprovedEmail notifies a learner their enrollment is active
func SendEnrollmentApprovedEmail(toName, toEmail, courseTitle string) error {
	subject := "Enrollment confirmed: " + courseTitle
	body := emailShell("Enrollment confirmed", fmt.Sprintf(`
		<h2>Welcome aboard, %s!</h2>
		<p>Your enrollment in <strong>%s</strong> is confirmed. You now have full access to the course content.</p>`,
		toName, courseTitle))
	return SendEmail(toName, toEmail, subject, body)
}

// emailShell wraps body content in the shared mail layout
func emailShell(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #00004D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #00004D; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #d7b56d; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #d7b56d; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">%s</div>
			<div class="footer">Coursebox &middot; This is an automated message, please do not reply.</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}
