// internal/handlers/category/category_handler.go
package category

import (
	"net/http"
	"strings"

	"wecamp-service/internal/domain/category"
	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/response"
	categorysvc "wecamp-service/internal/service/category"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	service *categorysvc.CategoryService
}

func NewCategoryHandler(service *categorysvc.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) List(c *gin.Context) error {
	items, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "categories retrieved", items)
	return nil
}

func (h *CategoryHandler) Tree(c *gin.Context) error {
	tree, err := h.service.GetCategoryTree(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "category tree retrieved", tree)
	return nil
}

func (h *CategoryHandler) Get(c *gin.Context) error {
	cat, err := h.service.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "category retrieved", cat)
	return nil
}

func (h *CategoryHandler) GetBySlug(c *gin.Context) error {
	cat, err := h.service.GetCategoryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "category retrieved", cat)
	return nil
}

// Scope returns the category ids a category page should include.
func (h *CategoryHandler) Scope(c *gin.Context) error {
	scope, err := h.service.ResolveScope(c.Request.Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "category scope resolved", scope)
	return nil
}

// Resolve finds the best matching category for free text (?q=).
func (h *CategoryHandler) Resolve(c *gin.Context) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return xerrors.Validation("validation failed", map[string]string{"q": "is required"})
	}
	cat, err := h.service.FindBestMatch(c.Request.Context(), q)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "category resolved", cat)
	return nil
}

func (h *CategoryHandler) Create(c *gin.Context) error {
	var req category.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}
	cat, err := h.service.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusCreated, "category created", cat)
	return nil
}

func (h *CategoryHandler) Update(c *gin.Context) error {
	var req category.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}
	cat, err := h.service.UpdateCategory(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "category updated", cat)
	return nil
}

func (h *CategoryHandler) Delete(c *gin.Context) error {
	if err := h.service.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "category deleted", nil)
	return nil
}

// Import bulk-creates a category tree, reusing slugs that already exist.
func (h *CategoryHandler) Import(c *gin.Context) error {
	var req category.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}
	result, err := h.service.ImportCategories(c.Request.Context(), req.Categories)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "categories imported", result)
	return nil
}
