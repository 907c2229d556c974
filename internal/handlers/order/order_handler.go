// internal/handlers/order/order_handler.go
package order

import (
	"net/http"

	"wecamp-service/internal/domain/order"
	"wecamp-service/internal/middleware"
	"wecamp-service/internal/pkg/response"
	ordersvc "wecamp-service/internal/service/order"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service *ordersvc.OrderService
}

func NewOrderHandler(service *ordersvc.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) List(c *gin.Context) error {
	var f order.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		return response.BindError(err)
	}
	items, total, err := h.service.List(c.Request.Context(), middleware.Actor(c), f)
	if err != nil {
		return err
	}
	response.Page(c, "orders retrieved", items, f.Page, f.Limit, total)
	return nil
}

func (h *OrderHandler) Get(c *gin.Context) error {
	o, err := h.service.Get(c.Request.Context(), middleware.Actor(c), c.Param("id"))
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "order retrieved", o)
	return nil
}

func (h *OrderHandler) Create(c *gin.Context) error {
	var req order.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}
	o, err := h.service.Create(c.Request.Context(), middleware.Actor(c), &req)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusCreated, "order created", o)
	return nil
}

func (h *OrderHandler) Update(c *gin.Context) error {
	var req order.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}
	o, err := h.service.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), &req)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "order updated", o)
	return nil
}

func (h *OrderHandler) Delete(c *gin.Context) error {
	if err := h.service.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "order deleted", nil)
	return nil
}
