// internal/handlers/blog/blog_handler.go
package blog

import (
	"net/http"

	"wecamp-service/internal/domain/blog"
	"wecamp-service/internal/middleware"
	"wecamp-service/internal/pkg/response"
	blogsvc "wecamp-service/internal/service/blog"

	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	service *blogsvc.BlogService
}

func NewBlogHandler(service *blogsvc.BlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

// List shows published posts to everyone and drafts to admins as well.
func (h *BlogHandler) List(c *gin.Context) error {
	var f blog.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		return response.BindError(err)
	}
	posts, total, err := h.service.List(c.Request.Context(), middleware.Actor(c), f)
	if err != nil {
		return err
	}
	response.Page(c, "blog posts retrieved", posts, f.Page, f.Limit, total)
	return nil
}

func (h *BlogHandler) Get(c *gin.Context) error {
	post, err := h.service.Get(c.Request.Context(), middleware.Actor(c), c.Param("idOrSlug"))
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "blog post retrieved", post)
	return nil
}

func (h *BlogHandler) Create(c *gin.Context) error {
	var req blog.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}
	post, err := h.service.Create(c.Request.Context(), middleware.Actor(c), &req)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusCreated, "blog post created", post)
	return nil
}

func (h *BlogHandler) Update(c *gin.Context) error {
	var req blog.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}
	post, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "blog post updated", post)
	return nil
}

func (h *BlogHandler) Delete(c *gin.Context) error {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "blog post deleted", nil)
	return nil
}
