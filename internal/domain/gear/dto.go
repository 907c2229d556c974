// internal/domain/gear/dto.go
package gear

import "wecamp-service/internal/pkg/pagination"

// CreateRequest is shared by the JSON and multipart forms of gear creation.
// CategoryID may hold an id, a slug or a display name.
type CreateRequest struct {
	Name                string            `json:"name" binding:"required,max=255"`
	Description         string            `json:"description"`
	CategoryID          string            `json:"category_id" binding:"required"`
	CategoryParent      string            `json:"category_parent"`
	Images              []string          `json:"images"`
	PricePerDay         float64           `json:"price_per_day" binding:"gte=0"`
	Deposit             *float64          `json:"deposit" binding:"omitempty,gte=0"`
	Available           *bool             `json:"available"`
	Status              Status            `json:"status" binding:"omitempty,oneof=for-sale orderable sold"`
	Specifications      map[string]string `json:"specifications"`
	Brand               *string           `json:"brand" binding:"omitempty,max=255"`
	Color               *string           `json:"color" binding:"omitempty,max=100"`
	Rating              *float64          `json:"rating" binding:"omitempty,gte=0,lte=5"`
	RecommendedProducts []string          `json:"recommended_products"`
}

type UpdateRequest struct {
	Name                *string            `json:"name" binding:"omitempty,min=1,max=255"`
	Description         *string            `json:"description"`
	CategoryID          *string            `json:"category_id"`
	CategoryParent      string             `json:"category_parent"`
	Images              *[]string          `json:"images"`
	PricePerDay         *float64           `json:"price_per_day" binding:"omitempty,gte=0"`
	Deposit             *float64           `json:"deposit" binding:"omitempty,gte=0"`
	Available           *bool              `json:"available"`
	Status              *Status            `json:"status" binding:"omitempty,oneof=for-sale orderable sold"`
	Specifications      *map[string]string `json:"specifications"`
	Brand               *string            `json:"brand" binding:"omitempty,max=255"`
	Color               *string            `json:"color" binding:"omitempty,max=100"`
	Rating              *float64           `json:"rating" binding:"omitempty,gte=0,lte=5"`
	RecommendedProducts *[]string          `json:"recommended_products"`
}

// Filter drives List and Search. CategoryIDs is an OR set.
type Filter struct {
	pagination.Params
	CategoryID  string   `form:"category_id"`
	CategoryIDs []string `form:"-"`
	Status      string   `form:"status" binding:"omitempty,oneof=for-sale orderable sold"`
	Available   *bool    `form:"available"`
	Brand       string   `form:"brand"`
	MinPrice    *float64 `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice    *float64 `form:"max_price" binding:"omitempty,gte=0"`
	Query       string   `form:"q"`
}
