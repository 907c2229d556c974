// internal/domain/reservation/entity.go
package reservation

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// DateLayout is the wire format of start_date and end_date.
const DateLayout = "2006-01-02"

type Reservation struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	CampsiteID   string    `json:"campsite_id" db:"campsite_id"`
	CampsiteName string    `json:"campsite_name,omitempty" db:"campsite_name"`
	StartDate    time.Time `json:"start_date" db:"start_date"`
	EndDate      time.Time `json:"end_date" db:"end_date"`
	Guests       int       `json:"guests" db:"guests"`
	TotalPrice   float64   `json:"total_price" db:"total_price"`
	Status       Status    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Nights is the number of nights between start and end.
func (r *Reservation) Nights() int {
	return int(r.EndDate.Sub(r.StartDate).Hours() / 24)
}

type CreateRequest struct {
	CampsiteID string `json:"campsite_id" binding:"required,uuid"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Guests     int    `json:"guests" binding:"required,min=1"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=pending confirmed cancelled"`
}

type Filter struct {
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	CampsiteID string `form:"campsite_id" binding:"omitempty,uuid"`
	UserID     string `form:"-"`
}
