// internal/domain/campsite/entity.go
package campsite

import (
	"time"

	"github.com/lib/pq"
)

type Campsite struct {
	ID            string         `json:"id" db:"id"`
	Name          string         `json:"name" db:"name"`
	Location      string         `json:"location" db:"location"`
	Description   string         `json:"description" db:"description"`
	PricePerNight float64        `json:"price_per_night" db:"price_per_night"`
	Capacity      int            `json:"capacity" db:"capacity"`
	Amenities     pq.StringArray `json:"amenities" db:"amenities"`
	Images        pq.StringArray `json:"images" db:"images"`
	Available     bool           `json:"available" db:"available"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

type CreateRequest struct {
	Name          string   `json:"name" binding:"required,max=255"`
	Location      string   `json:"location" binding:"required,max=255"`
	Description   string   `json:"description"`
	PricePerNight float64  `json:"price_per_night" binding:"gte=0"`
	Capacity      int      `json:"capacity" binding:"required,min=1"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	Available     *bool    `json:"available"`
}

type UpdateRequest struct {
	Name          *string   `json:"name" binding:"omitempty,min=1,max=255"`
	Location      *string   `json:"location" binding:"omitempty,min=1,max=255"`
	Description   *string   `json:"description"`
	PricePerNight *float64  `json:"price_per_night" binding:"omitempty,gte=0"`
	Capacity      *int      `json:"capacity" binding:"omitempty,min=1"`
	Amenities     *[]string `json:"amenities"`
	Images        *[]string `json:"images"`
	Available     *bool     `json:"available"`
}

type Filter struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	Location  string `form:"location"`
	Available *bool  `form:"available"`
	MinGuests int    `form:"guests"`
}
