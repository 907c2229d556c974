// internal/domain/brand/entity.go
package brand

import "time"

type Brand struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Logo        *string   `json:"logo,omitempty" db:"logo"`
	Description *string   `json:"description,omitempty" db:"description"`
	Website     *string   `json:"website,omitempty" db:"website"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreateRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Logo        *string `json:"logo"`
	Description *string `json:"description"`
	Website     *string `json:"website" binding:"omitempty,url"`
}

type UpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Logo        *string `json:"logo"`
	Description *string `json:"description"`
	Website     *string `json:"website" binding:"omitempty,url"`
}
