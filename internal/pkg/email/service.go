// internal/pkg/email/service.go
package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/pkg/currency"
)

// Service sends transactional email over SMTP
type Service struct {
	config *config.EmailConfig
	store  *config.AppConfig
	logger *logrus.Logger
}

// NewService creates a new email service
func NewService(cfg *config.EmailConfig, store *config.AppConfig, logger *logrus.Logger) *Service {
	return &Service{
		config: cfg,
		store:  store,
		logger: logger,
	}
}

// SendPaymentSuccess notifies a customer that their payment was received
func (s *Service) SendPaymentSuccess(to, name, orderNumber string, totalAmount int64) error {
	subject := fmt.Sprintf("Payment received for order %s", orderNumber)
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"We have received your payment of %s for order %s.\n"+
			"Your order is now being prepared for shipment.\n\n"+
			"Thank you for shopping with %s!\n",
		name, currency.FormatIDR(totalAmount), orderNumber, s.store.StoreName,
	)
	return s.send(to, subject, body)
}

// SendNewsletterWelcome greets a new newsletter subscriber
func (s *Service) SendNewsletterWelcome(to string) error {
	subject := fmt.Sprintf("Welcome to the %s newsletter", s.store.StoreName)
	body := fmt.Sprintf(
		"Thanks for subscribing!\n\n"+
			"You will be the first to hear about new arrivals and promotions from %s.\n",
		s.store.StoreName,
	)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	if s.config.SMTPHost == "" {
		// SMTP not configured, common in development
		s.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("email delivery skipped, SMTP not configured")
		return nil
	}

	from := s.config.FromEmail
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", s.config.FromName, from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	auth := smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPass, s.config.SMTPHost)

	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
