// internal/domain/product/service.go
package product

import (
	"fmt"
	"strings"

	"github.com/your-org/storefront-api/internal/config"
	"gorm.io/gorm"
)

// Service handles product catalog queries
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListRequest represents catalog list query parameters
type ListRequest struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=20"`
	Category string `form:"category"`
}

// ListResponse represents a paginated product list
type ListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ValidateSearchQuery rejects empty or blank search input before any query
// is issued.
func ValidateSearchQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("search query cannot be empty")
	}
	return nil
}

// List retrieves active products with pagination and optional category filter
func (s *Service) List(req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&Product{}).Where("is_active = ?", true)
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	var products []Product
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at desc").Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return &ListResponse{
		Products:   products,
		Pagination: paginate(req.Page, req.Limit, total),
	}, nil
}

// Search retrieves active products matching the query by name or description
func (s *Service) Search(query string, page, limit int) (*ListResponse, error) {
	if err := ValidateSearchQuery(query); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	pattern := "%" + strings.TrimSpace(query) + "%"
	dbQuery := s.db.Model(&Product{}).
		Where("is_active = ?", true).
		Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count search results: %w", err)
	}

	var products []Product
	offset := (page - 1) * limit
	if err := dbQuery.Order("name asc").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return &ListResponse{
		Products:   products,
		Pagination: paginate(page, limit, total),
	}, nil
}

// Get retrieves a single active product by id
func (s *Service) Get(id uint) (*Product, error) {
	var prod Product
	result := s.db.Where("id = ? AND is_active = ?", id, true).First(&prod)
	if result.Error != nil {
		return nil, fmt.Errorf("product not found")
	}
	return &prod, nil
}

// GetBySlug retrieves a single active product by slug
func (s *Service) GetBySlug(slug string) (*Product, error) {
	var prod Product
	result := s.db.Where("slug = ? AND is_active = ?", slug, true).First(&prod)
	if result.Error != nil {
		return nil, fmt.Errorf("product not found")
	}
	return &prod, nil
}

func paginate(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
