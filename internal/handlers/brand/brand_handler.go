// internal/handlers/brand/brand_handler.go
package brand

import (
	"net/http"

	"wecamp-service/internal/domain/brand"
	"wecamp-service/internal/pkg/response"
	brandsvc "wecamp-service/internal/service/brand"

	"github.com/gin-gonic/gin"
)

type BrandHandler struct {
	service *brandsvc.BrandService
}

func NewBrandHandler(service *brandsvc.BrandService) *BrandHandler {
	return &BrandHandler{service: service}
}

func (h *BrandHandler) List(c *gin.Context) error {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "brands retrieved", items)
	return nil
}

func (h *BrandHandler) Get(c *gin.Context) error {
	b, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "brand retrieved", b)
	return nil
}

func (h *BrandHandler) Create(c *gin.Context) error {
	var req brand.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}
	b, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusCreated, "brand created", b)
	return nil
}

func (h *BrandHandler) Update(c *gin.Context) error {
	var req brand.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}
	b, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "brand updated", b)
	return nil
}

func (h *BrandHandler) Delete(c *gin.Context) error {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "brand deleted", nil)
	return nil
}
