// internal/domain/shipping/store.go
package shipping

import (
	"fmt"

	"gorm.io/gorm"
)

// Store reads static rates from the database
type Store struct {
	db *gorm.DB
}

// NewStore creates a static rate store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// StaticRates returns the static rates for the given carriers, matched by
// normalized carrier key. Unknown carriers are silently skipped.
func (s *Store) StaticRates(carriers []string) ([]StaticRate, error) {
	keys := make([]string, 0, len(carriers))
	for _, c := range carriers {
		if key := NormalizeCarrierKey(c); key != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}

	var rates []StaticRate
	if err := s.db.Where("carrier IN ?", keys).Find(&rates).Error; err != nil {
		return nil, fmt.Errorf("failed to load static rates: %w", err)
	}
	return rates, nil
}
