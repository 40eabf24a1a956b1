// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/cart"
	"github.com/your-org/storefront-api/internal/domain/order"
	"github.com/your-org/storefront-api/internal/domain/payment"
	"github.com/your-org/storefront-api/internal/domain/product"
	"github.com/your-org/storefront-api/internal/domain/user"
	"github.com/your-org/storefront-api/internal/infrastructure/events"
	"gorm.io/gorm"
)

// PaymentGateway creates transactions with the external payment provider
type PaymentGateway interface {
	CreateTransaction(ctx context.Context, req *payment.TransactionRequest) (*payment.Transaction, error)
}

// Service handles pra-checkout snapshots, vouchers and checkout submission
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
	gateway     PaymentGateway
	feed        *events.Feed
	logger      *logrus.Logger
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, gateway PaymentGateway, feed *events.Feed, logger *logrus.Logger) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
		gateway:     gateway,
		feed:        feed,
		logger:      logger,
	}
}

func appliedVoucherKey(userID uint) string {
	return fmt.Sprintf("checkout:voucher:%d", userID)
}

// ApplyVoucher validates a voucher code against the user's current cart
// subtotal and remembers it for the next snapshot.
func (s *Service) ApplyVoucher(ctx context.Context, userID uint, code string, subTotal int64) (*Voucher, int64, error) {
	code = NormalizeVoucherCode(code)
	if code == "" {
		return nil, 0, fmt.Errorf("voucher code is required")
	}

	var voucher Voucher
	if err := s.db.Where("code = ?", code).First(&voucher).Error; err != nil {
		return nil, 0, fmt.Errorf("voucher not found")
	}

	if err := voucher.Validate(subTotal, time.Now().UTC()); err != nil {
		return nil, 0, err
	}

	if err := s.redisClient.Set(ctx, appliedVoucherKey(userID), code, time.Hour).Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to store applied voucher: %w", err)
	}

	return &voucher, voucher.DiscountFor(subTotal), nil
}

// RemoveVoucher forgets the user's applied voucher
func (s *Service) RemoveVoucher(ctx context.Context, userID uint) error {
	return s.redisClient.Del(ctx, appliedVoucherKey(userID)).Err()
}

func (s *Service) appliedVoucher(ctx context.Context, userID uint) (*Voucher, error) {
	code, err := s.redisClient.Get(ctx, appliedVoucherKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var voucher Voucher
	if err := s.db.Where("code = ?", code).First(&voucher).Error; err != nil {
		return nil, nil // Stale cache entry; treat as no voucher
	}
	return &voucher, nil
}

// CreateSnapshot freezes the user's cart (and applied voucher) into a
// write-once pra-checkout record that submission later consumes.
func (s *Service) CreateSnapshot(ctx context.Context, userID uint) (*PraCheckout, error) {
	var cartItems []cart.CartItem
	if err := s.db.Where("user_id = ?", userID).Order("created_at asc").Find(&cartItems).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	items := make([]SnapshotItem, 0, len(cartItems))
	var subTotal int64
	for _, ci := range cartItems {
		var prod product.Product
		name := ""
		if err := s.db.Where("id = ?", ci.ProductID).First(&prod).Error; err == nil {
			name = prod.Name
		}
		items = append(items, SnapshotItem{
			ProductID:   ci.ProductID,
			ProductName: name,
			Size:        ci.Size,
			Quantity:    ci.Quantity,
			Price:       ci.Price,
		})
		subTotal += ci.Price * int64(ci.Quantity)
	}

	snapshot := &PraCheckout{
		UserID:   userID,
		Items:    items,
		SubTotal: subTotal,
	}

	voucher, err := s.appliedVoucher(ctx, userID)
	if err != nil {
		return nil, err
	}
	if voucher != nil {
		if err := voucher.Validate(subTotal, time.Now().UTC()); err == nil {
			snapshot.VoucherCode = voucher.Code
			snapshot.DiscountAmount = voucher.DiscountFor(subTotal)
		}
	}

	snapshot.TotalAmount = subTotal - snapshot.DiscountAmount

	if err := s.db.Create(snapshot).Error; err != nil {
		return nil, fmt.Errorf("failed to create checkout snapshot: %w", err)
	}
	return snapshot, nil
}

// GetSnapshot returns an unconsumed snapshot owned by the user
func (s *Service) GetSnapshot(userID, snapshotID uint) (*PraCheckout, error) {
	var snapshot PraCheckout
	err := s.db.Where("id = ? AND user_id = ?", snapshotID, userID).First(&snapshot).Error
	if err != nil {
		return nil, fmt.Errorf("checkout snapshot not found")
	}
	return &snapshot, nil
}

// SubmitRequest carries the user's checkout choices
type SubmitRequest struct {
	SnapshotID    uint   `json:"snapshot_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	Carrier       string `json:"carrier" binding:"required"`
	ShippingCost  int64  `json:"shipping_cost"`
}

// SubmitResponse is the result handed back to the client
type SubmitResponse struct {
	Order       *order.Order `json:"order"`
	CheckoutURL string       `json:"checkout_url,omitempty"`
	PayCode     string       `json:"pay_code,omitempty"`
	QRURL       string       `json:"qr_url,omitempty"`
}

// ComputeTotal recomputes the order total server-side from the snapshot.
// The client never supplies the total.
func ComputeTotal(snapshot *PraCheckout, shippingCost int64) (subTotal, discount, total int64) {
	for _, item := range snapshot.Items {
		subTotal += item.Price * int64(item.Quantity)
	}
	discount = snapshot.DiscountAmount
	if discount > subTotal {
		discount = subTotal
	}
	total = subTotal + shippingCost - discount
	return subTotal, discount, total
}

// ValidateSubmission runs every pre-persistence check of the checkout
// flow: shipping address completeness, snapshot state, and the recomputed
// total. Nothing is persisted and no gateway call happens until it passes.
func ValidateSubmission(u *user.User, snapshot *PraCheckout, shippingCost int64) (subTotal, discount, total int64, err error) {
	if !u.HasShippingAddress() {
		return 0, 0, 0, fmt.Errorf("shipping address is incomplete")
	}
	if snapshot.IsConsumed() {
		return 0, 0, 0, fmt.Errorf("checkout snapshot already used")
	}
	if len(snapshot.Items) == 0 {
		return 0, 0, 0, fmt.Errorf("checkout snapshot is empty")
	}
	if shippingCost < 0 {
		return 0, 0, 0, fmt.Errorf("shipping cost cannot be negative")
	}

	subTotal, discount, total = ComputeTotal(snapshot, shippingCost)
	if total <= 0 {
		return 0, 0, 0, fmt.Errorf("order total must be positive")
	}
	return subTotal, discount, total, nil
}

// Submit runs the checkout flow: validate address and snapshot, recompute
// totals, persist the order, consume the snapshot, then create the gateway
// transaction and merge its metadata into the order.
func (s *Service) Submit(ctx context.Context, userID uint, req *SubmitRequest) (*SubmitResponse, error) {
	var u user.User
	if err := s.db.Where("id = ?", userID).First(&u).Error; err != nil {
		return nil, fmt.Errorf("user not found")
	}

	snapshot, err := s.GetSnapshot(userID, req.SnapshotID)
	if err != nil {
		return nil, err
	}

	subTotal, discount, total, err := ValidateSubmission(&u, snapshot, req.ShippingCost)
	if err != nil {
		return nil, err
	}

	ord := &order.Order{
		UserID:         userID,
		Status:         order.StatusSubmitted,
		SubTotal:       subTotal,
		DiscountAmount: discount,
		ShippingCost:   req.ShippingCost,
		TotalAmount:    total,
		VoucherCode:    snapshot.VoucherCode,
		RecipientName:  u.RecipientName,
		RecipientPhone: u.RecipientPhone,
		Street:         u.Street,
		Province:       u.Province,
		Regency:        u.Regency,
		District:       u.District,
		Village:        u.Village,
		PostalCode:     u.PostalCode,
		Carrier:        req.Carrier,
		PaymentMethod:  req.PaymentMethod,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ord).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		ord.OrderNumber = order.GenerateOrderNumber(ord.ID)
		if err := tx.Model(ord).Update("order_number", ord.OrderNumber).Error; err != nil {
			return fmt.Errorf("failed to assign order number: %w", err)
		}

		for _, item := range snapshot.Items {
			orderItem := order.OrderItem{
				OrderID:     ord.ID,
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Size:        item.Size,
				Quantity:    item.Quantity,
				UnitPrice:   item.Price,
				TotalPrice:  item.Price * int64(item.Quantity),
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
			ord.Items = append(ord.Items, orderItem)
		}

		now := time.Now().UTC()
		if err := tx.Model(snapshot).Update("consumed_at", now).Error; err != nil {
			return fmt.Errorf("failed to consume checkout snapshot: %w", err)
		}

		if snapshot.VoucherCode != "" {
			tx.Model(&Voucher{}).Where("code = ?", snapshot.VoucherCode).
				UpdateColumn("used_count", gorm.Expr("used_count + 1"))
		}

		if err := tx.Where("user_id = ?", userID).Delete(&cart.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.redisClient.Del(ctx, appliedVoucherKey(userID))
	s.feed.Publish(ctx, events.TableCartItems, events.ActionDelete, userID, 0)
	s.feed.Publish(ctx, events.TableOrders, events.ActionInsert, userID, ord.ID)

	lines := make([]payment.LineItem, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		lines = append(lines, payment.LineItem{
			Name:     item.ProductName,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	tx, err := s.gateway.CreateTransaction(ctx, &payment.TransactionRequest{
		MerchantRef:   ord.OrderNumber,
		Method:        req.PaymentMethod,
		Amount:        total,
		CustomerName:  ord.RecipientName,
		CustomerEmail: u.Email,
		CustomerPhone: ord.RecipientPhone,
		OrderItems:    payment.BuildLineItems(lines, total),
	})
	if err != nil {
		// The order row stays in submitted for later inspection
		s.logger.WithError(err).WithField("order_number", ord.OrderNumber).
			Error("payment transaction creation failed")
		return nil, fmt.Errorf("failed to create payment transaction: %w", err)
	}

	expiresAt := tx.ExpiresAt()
	ord.Status = order.StatusPending
	ord.PaymentReference = tx.Reference
	ord.CheckoutURL = tx.CheckoutURL
	ord.PayCode = tx.PayCode
	ord.QRURL = tx.QRURL
	ord.PaymentExpiresAt = &expiresAt

	if err := s.db.Save(ord).Error; err != nil {
		return nil, fmt.Errorf("failed to store payment details: %w", err)
	}

	s.feed.Publish(ctx, events.TableOrders, events.ActionUpdate, userID, ord.ID)

	return &SubmitResponse{
		Order:       ord,
		CheckoutURL: tx.CheckoutURL,
		PayCode:     tx.PayCode,
		QRURL:       tx.QRURL,
	}, nil
}
