package mailer

// Notifier sends transactional email. Delivery is best-effort: callers
// never block a request on it and failures are only logged.
type Notifier interface {
	SendWelcome(toEmail, toName string) error
	SendEmailVerification(toEmail, toName, verifyURL string) error
	SendPasswordReset(toEmail, toName, resetURL string) error
	SendBookingRequested(toEmail, toName, propertyTitle, scheduledTime string) error
	SendBookingReceived(toEmail, toName, propertyTitle, scheduledTime string) error
	SendBookingConfirmed(toEmail, toName, propertyTitle, scheduledTime string) error
	SendBookingCancelled(toEmail, toName, propertyTitle, reason string) error
	SendPaymentReceipt(toEmail, toName, transactionID string, totalAmount float64) error
}

// Nop discards every notification. Used when SMTP is not configured
// and in tests.
type Nop struct{}

func (Nop) SendWelcome(string, string) error                          { return nil }
func (Nop) SendEmailVerification(string, string, string) error        { return nil }
func (Nop) SendPasswordReset(string, string, string) error            { return nil }
func (Nop) SendBookingRequested(string, string, string, string) error { return nil }
func (Nop) SendBookingReceived(string, string, string, string) error  { return nil }
func (Nop) SendBookingConfirmed(string, string, string, string) error { return nil }
func (Nop) SendBookingCancelled(string, string, string, string) error { return nil }
func (Nop) SendPaymentReceipt(string, string, string, float64) error  { return nil }
