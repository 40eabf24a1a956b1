// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User represents the user entity. Shipping address fields are denormalized
// onto the user record and read to prefill checkout.
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password    string     `gorm:"not null;size:255" json:"-"`
	FullName    string     `gorm:"size:255" json:"full_name"`
	Phone       string     `gorm:"size:20" json:"phone"`
	Avatar      string     `gorm:"size:500" json:"avatar"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`

	// Shipping address (single address per account, prefills checkout)
	RecipientName  string `gorm:"size:255" json:"recipient_name"`
	RecipientPhone string `gorm:"size:20" json:"recipient_phone"`
	Street         string `gorm:"size:500" json:"street"`
	Province       string `gorm:"size:100" json:"province"`
	ProvinceCode   string `gorm:"size:10" json:"province_code"`
	Regency        string `gorm:"size:100" json:"regency"`
	RegencyCode    string `gorm:"size:10" json:"regency_code"`
	District       string `gorm:"size:100" json:"district"`
	DistrictCode   string `gorm:"size:10" json:"district_code"`
	Village        string `gorm:"size:100" json:"village"`
	VillageCode    string `gorm:"size:13" json:"village_code"`
	PostalCode     string `gorm:"size:10" json:"postal_code"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to handle business logic before user creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = strings.ToLower(u.Email)
	return nil
}

// DisplayName returns the full name or, when empty, the email
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return u.Email
}

// HasShippingAddress reports whether the denormalized address fields are
// complete enough to ship to.
func (u *User) HasShippingAddress() bool {
	return u.RecipientName != "" &&
		u.RecipientPhone != "" &&
		u.Street != "" &&
		u.Province != "" &&
		u.Regency != "" &&
		u.District != "" &&
		u.Village != "" &&
		u.PostalCode != ""
}
