// internal/domain/review/entity.go
package review

import "time"

// NewWindow is how long a review counts as "new" for admin notifications.
const NewWindow = 24 * time.Hour

type Review struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	UserName   string    `json:"user_name,omitempty" db:"user_name"`
	GearID     *string   `json:"gear_id,omitempty" db:"gear_id"`
	CampsiteID *string   `json:"campsite_id,omitempty" db:"campsite_id"`
	Rating     int       `json:"rating" db:"rating"`
	Comment    string    `json:"comment" db:"comment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type CreateRequest struct {
	GearID     *string `json:"gear_id" binding:"omitempty,uuid"`
	CampsiteID *string `json:"campsite_id" binding:"omitempty,uuid"`
	Rating     int     `json:"rating" binding:"required,min=1,max=5"`
	Comment    string  `json:"comment" binding:"max=5000"`
}

type Filter struct {
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
	GearID     string `form:"gear_id" binding:"omitempty,uuid"`
	CampsiteID string `form:"campsite_id" binding:"omitempty,uuid"`
}
