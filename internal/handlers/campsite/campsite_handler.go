// internal/handlers/campsite/campsite_handler.go
package campsite

import (
	"net/http"

	"wecamp-service/internal/domain/campsite"
	"wecamp-service/internal/pkg/response"
	campsitesvc "wecamp-service/internal/service/campsite"

	"github.com/gin-gonic/gin"
)

type CampsiteHandler struct {
	service *campsitesvc.CampsiteService
}

func NewCampsiteHandler(service *campsitesvc.CampsiteService) *CampsiteHandler {
	return &CampsiteHandler{service: service}
}

func (h *CampsiteHandler) List(c *gin.Context) error {
	var f campsite.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		return response.BindError(err)
	}
	items, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		return err
	}
	response.Page(c, "campsites retrieved", items, f.Page, f.Limit, total)
	return nil
}

func (h *CampsiteHandler) Get(c *gin.Context) error {
	site, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "campsite retrieved", site)
	return nil
}

func (h *CampsiteHandler) Create(c *gin.Context) error {
	var req campsite.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}
	site, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusCreated, "campsite created", site)
	return nil
}

func (h *CampsiteHandler) Update(c *gin.Context) error {
	var req campsite.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}
	site, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "campsite updated", site)
	return nil
}

func (h *CampsiteHandler) Delete(c *gin.Context) error {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "campsite deleted", nil)
	return nil
}
