// internal/domain/reference/entity.go
package reference

import "time"

type Reference struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	Image       *string   `json:"image,omitempty" db:"image"`
	Link        *string   `json:"link,omitempty" db:"link"`
	Order       int       `json:"order" db:"sort_order"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreateRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Link        *string `json:"link" binding:"omitempty,url"`
	Order       int     `json:"order"`
}

type UpdateRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Link        *string `json:"link" binding:"omitempty,url"`
	Order       *int    `json:"order"`
}
