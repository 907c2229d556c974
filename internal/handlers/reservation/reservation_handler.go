// internal/handlers/reservation/reservation_handler.go
package reservation

import (
	"net/http"

	"wecamp-service/internal/domain/reservation"
	"wecamp-service/internal/middleware"
	"wecamp-service/internal/pkg/response"
	reservationsvc "wecamp-service/internal/service/reservation"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	service *reservationsvc.ReservationService
}

func NewReservationHandler(service *reservationsvc.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// List returns the caller's reservations, or every reservation for admins.
func (h *ReservationHandler) List(c *gin.Context) error {
	var f reservation.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		return response.BindError(err)
	}
	items, total, err := h.service.List(c.Request.Context(), middleware.Actor(c), f)
	if err != nil {
		return err
	}
	response.Page(c, "reservations retrieved", items, f.Page, f.Limit, total)
	return nil
}

func (h *ReservationHandler) Get(c *gin.Context) error {
	r, err := h.service.Get(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "reservation retrieved", r)
	return nil
}

func (h *ReservationHandler) Create(c *gin.Context) error {
	var req reservation.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}
	r, err := h.service.Create(c.Request.Context(), middleware.Actor(c), &req)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusCreated, "reservation created", r)
	return nil
}

func (h *ReservationHandler) Cancel(c *gin.Context) error {
	r, err := h.service.Cancel(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "reservation cancelled", r)
	return nil
}

func (h *ReservationHandler) UpdateStatus(c *gin.Context) error {
	var req reservation.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}
	r, err := h.service.UpdateStatus(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "reservation status updated", r)
	return nil
}
