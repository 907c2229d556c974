// internal/handlers/reference/reference_handler.go
package reference

import (
	"net/http"

	"wecamp-service/internal/domain/reference"
	"wecamp-service/internal/pkg/response"
	referencesvc "wecamp-service/internal/service/reference"

	"github.com/gin-gonic/gin"
)

type ReferenceHandler struct {
	service *referencesvc.ReferenceService
}

func NewReferenceHandler(service *referencesvc.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

func (h *ReferenceHandler) List(c *gin.Context) error {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "references retrieved", items)
	return nil
}

func (h *ReferenceHandler) Get(c *gin.Context) error {
	ref, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "reference retrieved", ref)
	return nil
}

func (h *ReferenceHandler) Create(c *gin.Context) error {
	var req reference.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}
	ref, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusCreated, "reference created", ref)
	return nil
}

func (h *ReferenceHandler) Update(c *gin.Context) error {
	var req reference.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}
	ref, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "reference updated", ref)
	return nil
}

func (h *ReferenceHandler) Delete(c *gin.Context) error {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "reference deleted", nil)
	return nil
}
