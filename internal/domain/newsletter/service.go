// internal/domain/newsletter/service.go
package newsletter

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// WelcomeMailer sends the newsletter welcome email
type WelcomeMailer interface {
	SendNewsletterWelcome(to string) error
}

// Service handles newsletter subscriptions
type Service struct {
	db     *gorm.DB
	mailer WelcomeMailer
	logger *logrus.Logger
}

// NewService creates a new newsletter service
func NewService(db *gorm.DB, mailer WelcomeMailer, logger *logrus.Logger) *Service {
	return &Service{db: db, mailer: mailer, logger: logger}
}

// Subscribe adds an email to the newsletter list. Subscribing an address
// that is already on the list succeeds without side effects.
func (s *Service) Subscribe(email string) (*Subscription, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	var existing Subscription
	result := s.db.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		return &existing, nil
	}
	if result.Error != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check subscription: %w", result.Error)
	}

	sub := Subscription{Email: email}
	if err := s.db.Create(&sub).Error; err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendNewsletterWelcome(email); err != nil {
			s.logger.WithError(err).Warn("failed to send newsletter welcome email")
		}
	}

	return &sub, nil
}
