// internal/domain/newsletter/entity.go
package newsletter

import "time"

// Subscription is a newsletter signup
type Subscription struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for the Subscription model
func (Subscription) TableName() string {
	return "newsletter_subscriptions"
}
