// internal/handlers/user/user_handler.go
package user

import (
	"net/http"

	"wecamp-service/internal/domain/user"
	"wecamp-service/internal/middleware"
	"wecamp-service/internal/pkg/response"
	usersvc "wecamp-service/internal/service/user"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the admin user management endpoints.
type UserHandler struct {
	service *usersvc.UserService
}

func NewUserHandler(service *usersvc.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) List(c *gin.Context) error {
	var f user.ListFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		return response.BindError(err)
	}
	users, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		return err
	}
	response.Page(c, "users retrieved", users, f.Page, f.Limit, total)
	return nil
}

func (h *UserHandler) Get(c *gin.Context) error {
	u, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "user retrieved", u)
	return nil
}

func (h *UserHandler) Update(c *gin.Context) error {
	var req user.AdminUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}
	u, err := h.service.Update(c.Request.Context(), middleware.Actor(c), c.Param("id"), &req)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "user updated", u)
	return nil
}

func (h *UserHandler) Delete(c *gin.Context) error {
	if err := h.service.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "user deleted", nil)
	return nil
}
