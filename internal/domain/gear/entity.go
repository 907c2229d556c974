// internal/domain/gear/entity.go
package gear

import (
	"time"

	"github.com/lib/pq"
)

type Status string

const (
	StatusForSale   Status = "for-sale"
	StatusOrderable Status = "orderable"
	StatusSold      Status = "sold"
)

func (s Status) Valid() bool {
	switch s {
	case StatusForSale, StatusOrderable, StatusSold:
		return true
	}
	return false
}

// RecommendedFallbackLimit caps same-category suggestions when none are curated.
const RecommendedFallbackLimit = 4

type Gear struct {
	ID                  string            `json:"id" db:"id"`
	Name                string            `json:"name" db:"name"`
	Description         string            `json:"description" db:"description"`
	CategoryID          string            `json:"category_id" db:"category_id"`
	Images              pq.StringArray    `json:"images" db:"images"`
	PricePerDay         float64           `json:"price_per_day" db:"price_per_day"`
	Deposit             *float64          `json:"deposit,omitempty" db:"deposit"`
	Available           bool              `json:"available" db:"available"`
	Status              Status            `json:"status" db:"status"`
	Specifications      map[string]string `json:"specifications" db:"specifications"`
	Brand               *string           `json:"brand,omitempty" db:"brand"`
	Color               *string           `json:"color,omitempty" db:"color"`
	Rating              *float64          `json:"rating,omitempty" db:"rating"`
	RecommendedProducts pq.StringArray    `json:"recommended_products" db:"recommended_products"`
	CreatedBy           *string           `json:"created_by,omitempty" db:"created_by"`
	CreatedAt           time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at" db:"updated_at"`

	// joined, read-only
	CategoryName string `json:"category_name,omitempty" db:"category_name"`
}
