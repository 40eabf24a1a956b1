// internal/domain/user/service.go
package user

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	logger          *logrus.Logger
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		logger:          logger,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FullName        string `json:"full_name" binding:"required"`
	Phone           string `json:"phone"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// UpdateAddressRequest carries the denormalized shipping address fields
type UpdateAddressRequest struct {
	RecipientName  string `json:"recipient_name" binding:"required"`
	RecipientPhone string `json:"recipient_phone" binding:"required"`
	Street         string `json:"street" binding:"required"`
	Province       string `json:"province" binding:"required"`
	ProvinceCode   string `json:"province_code" binding:"required"`
	Regency        string `json:"regency" binding:"required"`
	RegencyCode    string `json:"regency_code" binding:"required"`
	District       string `json:"district" binding:"required"`
	DistrictCode   string `json:"district_code" binding:"required"`
	Village        string `json:"village" binding:"required"`
	VillageCode    string `json:"village_code" binding:"required"`
	PostalCode     string `json:"postal_code" binding:"required"`
}

// Register creates a new user account
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match")
	}

	// Check if user already exists
	var existingUser User
	result := s.db.Where("email = ?", req.Email).First(&existingUser)
	if result.Error == nil {
		return nil, fmt.Errorf("user with this email already exists")
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		Email:    req.Email,
		Password: hashedPassword,
		FullName: req.FullName,
		Phone:    req.Phone,
		IsActive: true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("user registered")

	return s.issueTokens(&user)
}

// Login authenticates a user
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	var user User
	result := s.db.Where("email = ? AND is_active = ?", req.Email, true).First(&user)
	if result.Error != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := s.passwordManager.VerifyPassword(req.Password, user.Password); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	s.db.Save(&user)

	return s.issueTokens(&user)
}

// RefreshToken generates new tokens using a refresh token
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	var user User
	result := s.db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&user)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found or inactive")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefreshToken := refreshToken
	if s.config.JWT.RefreshTokenRotation {
		newRefreshToken, err = s.jwtManager.GenerateRefreshToken(user.ID, user.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to generate refresh token: %w", err)
		}
	}

	user.Password = ""

	return &AuthResponse{
		User:         &user,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// GetProfile gets user profile by ID
func (s *Service) GetProfile(userID uint) (*User, error) {
	var user User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&user)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found")
	}

	user.Password = ""
	return &user, nil
}

// UpdateProfile updates mutable profile fields
func (s *Service) UpdateProfile(userID uint, updates map[string]interface{}) (*User, error) {
	var user User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&user)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found")
	}

	// Remove fields never writable through this path
	delete(updates, "password")
	delete(updates, "email")
	delete(updates, "is_active")

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	user.Password = ""
	return &user, nil
}

// UpdateAddress replaces the account's shipping address fields
func (s *Service) UpdateAddress(userID uint, req *UpdateAddressRequest) (*User, error) {
	var user User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&user)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found")
	}

	updates := map[string]interface{}{
		"recipient_name":  req.RecipientName,
		"recipient_phone": req.RecipientPhone,
		"street":          req.Street,
		"province":        req.Province,
		"province_code":   req.ProvinceCode,
		"regency":         req.Regency,
		"regency_code":    req.RegencyCode,
		"district":        req.District,
		"district_code":   req.DistrictCode,
		"village":         req.Village,
		"village_code":    req.VillageCode,
		"postal_code":     req.PostalCode,
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	user.Password = ""
	return &user, nil
}

// ChangePassword changes user password after verifying the current one
func (s *Service) ChangePassword(userID uint, currentPassword, newPassword string) error {
	var user User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&user)
	if result.Error != nil {
		return fmt.Errorf("user not found")
	}

	if err := s.passwordManager.VerifyPassword(currentPassword, user.Password); err != nil {
		return fmt.Errorf("current password is incorrect")
	}

	hashedPassword, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.db.Model(&user).Update("password", hashedPassword).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *Service) issueTokens(user *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	user.Password = ""

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}
