// internal/domain/user/dto.go
package user

import "wecamp-service/internal/pkg/pagination"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	Name     string `json:"name" binding:"required,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=255"`
	Avatar *string `json:"avatar" binding:"omitempty,max=2048"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=128"`
}

// AdminUpdateRequest is what an admin may change on another account.
type AdminUpdateRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=255"`
	Role   *string `json:"role" binding:"omitempty,oneof=user admin"`
	Avatar *string `json:"avatar" binding:"omitempty,max=2048"`
}

type ListFilter struct {
	pagination.Params
	Search string `form:"search"`
	Role   string `form:"role" binding:"omitempty,oneof=user admin"`
}
