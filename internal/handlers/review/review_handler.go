// internal/handlers/review/review_handler.go
package review

import (
	"net/http"

	"wecamp-service/internal/domain/review"
	"wecamp-service/internal/middleware"
	"wecamp-service/internal/pkg/response"
	reviewsvc "wecamp-service/internal/service/review"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	service *reviewsvc.ReviewService
}

func NewReviewHandler(service *reviewsvc.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) List(c *gin.Context) error {
	var f review.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		return response.BindError(err)
	}
	items, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		return err
	}
	response.Page(c, "reviews retrieved", items, f.Page, f.Limit, total)
	return nil
}

func (h *ReviewHandler) Create(c *gin.Context) error {
	var req review.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}
	r, err := h.service.Create(c.Request.Context(), middleware.Actor(c), &req)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusCreated, "review created", r)
	return nil
}

func (h *ReviewHandler) Delete(c *gin.Context) error {
	if err := h.service.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "review deleted", nil)
	return nil
}
