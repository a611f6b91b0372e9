package services

import (
	"fmt"
	"net/smtp"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ecodrop/ecodrop-api/internal/config"
	"github.com/ecodrop/ecodrop-api/internal/models"
)

// EmailService sends drop-status emails. Delivery is best-effort: the service
// is disabled when no SMTP host is configured, and failures never propagate
// to the operation that triggered the email.
type EmailService struct {
	cfg config.EmailConfig
	log *logrus.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(cfg config.EmailConfig, log *logrus.Logger) *EmailService {
	return &EmailService{
		cfg: cfg,
		log: log,
	}
}

// Enabled reports whether SMTP delivery is configured
func (s *EmailService) Enabled() bool {
	return s.cfg.SMTPHost != ""
}

// SendDropApproved notifies a user that a submission was approved and paid
func (s *EmailService) SendDropApproved(to string, drop *models.Drop, amount decimal.Decimal, txHash string) {
	subject := "EcoDrop - Submission Approved"
	body := fmt.Sprintf(`
Good news!

Your %s submission was approved and %s ADA has been sent to your wallet.

Transaction: %s

Thanks for recycling,
EcoDrop Team
`, drop.DeviceTier, amount, txHash)

	s.send(to, subject, body)
}

// SendWalletReminder asks a user to connect a wallet for a waiting reward
func (s *EmailService) SendWalletReminder(to string, amount decimal.Decimal) {
	subject := "EcoDrop - Connect a Wallet to Receive Your Reward"
	body := fmt.Sprintf(`
Your submission was approved for %s ADA.

Connect a Cardano wallet in the app and the reward will be paid out
automatically.

Thanks for recycling,
EcoDrop Team
`, amount)

	s.send(to, subject, body)
}

// send delivers one email, logging failures instead of returning them
func (s *EmailService) send(to, subject, body string) {
	if !s.Enabled() {
		return
	}

	from := s.cfg.FromEmail
	message := []byte(fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", from, to, subject, body))

	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	if err := smtp.SendMail(addr, auth, from, []string{to}, message); err != nil {
		s.log.WithError(err).WithField("to", to).Warn("failed to send email")
	}
}
