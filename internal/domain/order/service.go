// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/domain/user"
	"github.com/your-org/storefront-api/internal/infrastructure/events"
	"gorm.io/gorm"
)

// Mailer sends order-related notifications
type Mailer interface {
	SendPaymentSuccess(to, name, orderNumber string, totalAmount int64) error
}

// Service handles order business logic
type Service struct {
	db     *gorm.DB
	feed   *events.Feed
	mailer Mailer
	logger *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, feed *events.Feed, mailer Mailer, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		feed:   feed,
		mailer: mailer,
		logger: logger,
	}
}

// ListResponse is a paginated order history page
type ListResponse struct {
	Orders     []Order `json:"orders"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"total_pages"`
}

// List returns the user's orders newest first
func (s *Service) List(userID uint, page, limit int) (*ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.db.Model(&Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	err := s.db.Where("user_id = ?", userID).
		Preload("Items").
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ListResponse{
		Orders:     orders,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Get returns a single order owned by the user
func (s *Service) Get(userID uint, orderNumber string) (*Order, error) {
	var ord Order
	err := s.db.Where("order_number = ? AND user_id = ?", orderNumber, userID).
		Preload("Items").
		First(&ord).Error
	if err != nil {
		return nil, fmt.Errorf("order not found")
	}
	return &ord, nil
}

// Cancel cancels an order if its status allows it
func (s *Service) Cancel(ctx context.Context, userID uint, orderNumber string) (*Order, error) {
	ord, err := s.Get(userID, orderNumber)
	if err != nil {
		return nil, err
	}

	if !ord.Status.CanTransitionTo(StatusCancelled) {
		return nil, fmt.Errorf("order in status %s cannot be cancelled", ord.Status)
	}

	ord.Status = StatusCancelled
	if err := s.db.Save(ord).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	s.feed.Publish(ctx, events.TableOrders, events.ActionUpdate, userID, ord.ID)
	return ord, nil
}

// MapGatewayStatus translates a payment gateway status string to an order
// status. Unknown statuses map to the zero value.
func MapGatewayStatus(gatewayStatus string) Status {
	switch strings.ToUpper(gatewayStatus) {
	case "PAID":
		return StatusPaid
	case "UNPAID":
		return StatusPending
	case "EXPIRED", "FAILED":
		return StatusFailed
	case "REFUND":
		return StatusCancelled
	default:
		return ""
	}
}

// ApplyGatewayStatus updates an order from a payment gateway notification.
// Transitions the status machine forbids are ignored, so replayed or
// out-of-order webhooks cannot move an order backwards.
func (s *Service) ApplyGatewayStatus(ctx context.Context, merchantRef, gatewayStatus, reference string) (*Order, error) {
	target := MapGatewayStatus(gatewayStatus)
	if target == "" {
		return nil, fmt.Errorf("unknown gateway status: %s", gatewayStatus)
	}

	var ord Order
	if err := s.db.Where("order_number = ?", merchantRef).First(&ord).Error; err != nil {
		return nil, fmt.Errorf("order not found for reference %s", merchantRef)
	}

	if ord.Status == target {
		return &ord, nil // Idempotent replay
	}

	if !ord.Status.CanTransitionTo(target) {
		s.logger.WithFields(logrus.Fields{
			"order_number": ord.OrderNumber,
			"from":         ord.Status,
			"to":           target,
		}).Warn("ignoring disallowed order status transition")
		return &ord, nil
	}

	ord.Status = target
	if reference != "" {
		ord.PaymentReference = reference
	}
	if target == StatusPaid {
		now := time.Now().UTC()
		ord.PaidAt = &now
	}

	if err := s.db.Save(&ord).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.feed.Publish(ctx, events.TableOrders, events.ActionUpdate, ord.UserID, ord.ID)

	if target == StatusPaid {
		s.notifyPaymentSuccess(&ord)
	}

	return &ord, nil
}

func (s *Service) notifyPaymentSuccess(ord *Order) {
	if s.mailer == nil {
		return
	}

	var u user.User
	if err := s.db.Where("id = ?", ord.UserID).First(&u).Error; err != nil {
		s.logger.WithError(err).Warn("failed to load user for payment email")
		return
	}

	if err := s.mailer.SendPaymentSuccess(u.Email, u.DisplayName(), ord.OrderNumber, ord.TotalAmount); err != nil {
		s.logger.WithError(err).WithField("order_number", ord.OrderNumber).
			Warn("failed to send payment success email")
	}
}
