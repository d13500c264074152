package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/ritikk978/next-nest/pkg/config"
)

// SMTPNotifier delivers mail through an SMTP relay using gomail
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
}

// New picks the SMTP notifier when mail is enabled and configured,
// otherwise the no-op one
func New(cfg *config.Config) Notifier {
	if !cfg.SMTP.Enabled || cfg.SMTP.Username == "" {
		return Nop{}
	}
	return &SMTPNotifier{
		dialer: gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password),
		from:   cfg.SMTP.From,
	}
}

func (n *SMTPNotifier) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return n.dialer.DialAndSend(m)
}

func (n *SMTPNotifier) SendWelcome(toEmail, toName string) error {
	body := fmt.Sprintf("Hello %s,\n\nWelcome to NextNest. Your account is ready.\n", toName)
	return n.send(toEmail, "Welcome to NextNest", body)
}

func (n *SMTPNotifier) SendEmailVerification(toEmail, toName, verifyURL string) error {
	body := fmt.Sprintf("Hello %s,\n\nVerify your email address by opening the link below:\n%s\n\nThe link expires in 30 minutes. If you did not request this, ignore this email.\n", toName, verifyURL)
	return n.send(toEmail, "Verify your email address", body)
}

func (n *SMTPNotifier) SendPasswordReset(toEmail, toName, resetURL string) error {
	body := fmt.Sprintf("Hello %s,\n\nReset your password by opening the link below:\n%s\n\nThe link expires in 30 minutes. If you did not request this, ignore this email.\n", toName, resetURL)
	return n.send(toEmail, "Reset your password", body)
}

func (n *SMTPNotifier) SendBookingRequested(toEmail, toName, propertyTitle, scheduledTime string) error {
	body := fmt.Sprintf("Hello %s,\n\nWe received your visit request for '%s' at %s.\nYou will be notified once the owner confirms.\n", toName, propertyTitle, scheduledTime)
	return n.send(toEmail, "Your visit request was received", body)
}

func (n *SMTPNotifier) SendBookingReceived(toEmail, toName, propertyTitle, scheduledTime string) error {
	body := fmt.Sprintf("Hello %s,\n\nA new visit was requested on your listing '%s' for %s.\nConfirm or decline it from your bookings page.\n", toName, propertyTitle, scheduledTime)
	return n.send(toEmail, "New visit request on your listing", body)
}

func (n *SMTPNotifier) SendBookingConfirmed(toEmail, toName, propertyTitle, scheduledTime string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour visit to '%s' is confirmed for %s.\n", toName, propertyTitle, scheduledTime)
	return n.send(toEmail, "Your visit is confirmed", body)
}

func (n *SMTPNotifier) SendBookingCancelled(toEmail, toName, propertyTitle, reason string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour visit to '%s' was cancelled.\nReason: %s\n", toName, propertyTitle, reason)
	return n.send(toEmail, "Your visit was cancelled", body)
}

func (n *SMTPNotifier) SendPaymentReceipt(toEmail, toName, transactionID string, totalAmount float64) error {
	body := fmt.Sprintf("Hello %s,\n\nWe received your payment of %.2f.\nTransaction reference: %s\n", toName, totalAmount, transactionID)
	return n.send(toEmail, "Payment received", body)
}
