// internal/domain/order/entity.go
package order

import "time"

type Status string

const (
	StatusWaiting Status = "waiting"
	StatusArrived Status = "arrived"
	StatusShipped Status = "shipped"
)

type UserOrder struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	UserName    string     `json:"user_name,omitempty" db:"user_name"`
	GearID      string     `json:"gear_id" db:"gear_id"`
	GearName    string     `json:"gear_name,omitempty" db:"gear_name"`
	Status      Status     `json:"status" db:"status"`
	Price       float64    `json:"price" db:"price"`
	PublicNote  *string    `json:"public_note,omitempty" db:"public_note"`
	PrivateNote *string    `json:"private_note,omitempty" db:"private_note"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty" db:"shipped_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Redacted returns a copy without admin-only fields.
func (o *UserOrder) Redacted() *UserOrder {
	cp := *o
	cp.PrivateNote = nil
	return &cp
}

type CreateRequest struct {
	GearID     string  `json:"gear_id" binding:"required,uuid"`
	PublicNote *string `json:"public_note" binding:"omitempty,max=2000"`
	// admin only
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	UserID      *string  `json:"user_id" binding:"omitempty,uuid"`
	Status      *Status  `json:"status" binding:"omitempty,oneof=waiting arrived shipped"`
	PrivateNote *string  `json:"private_note" binding:"omitempty,max=2000"`
}

type UpdateRequest struct {
	PublicNote *string `json:"public_note" binding:"omitempty,max=2000"`
	// admin only
	Price       *float64   `json:"price" binding:"omitempty,gte=0"`
	Status      *Status    `json:"status" binding:"omitempty,oneof=waiting arrived shipped"`
	PrivateNote *string    `json:"private_note" binding:"omitempty,max=2000"`
	ShippedAt   *time.Time `json:"shipped_at"`
}

type Filter struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status" binding:"omitempty,oneof=waiting arrived shipped"`
	UserID string `form:"-"`
}
