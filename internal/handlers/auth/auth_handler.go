// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"
	"time"

	"wecamp-service/internal/domain/auth"
	"wecamp-service/internal/domain/user"
	"wecamp-service/internal/middleware"
	xerrors "wecamp-service/internal/pkg/errors"
	"wecamp-service/internal/pkg/response"
	authUsecase "wecamp-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RefreshCookie carries the refresh token; the access token uses middleware.AccessCookie.
const RefreshCookie = "refreshToken"

type AuthHandler struct {
	authService  *authUsecase.AuthService
	secureCookie bool
	logger       *zap.Logger
}

func NewAuthHandler(authService *authUsecase.AuthService, secureCookie bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// ========== Registration ==========

// Register creates an account. No session is started; the client logs in next.
func (h *AuthHandler) Register(c *gin.Context) error {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}

	u, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		return err
	}

	response.Success(c, http.StatusCreated, "registration successful", u)
	return nil
}

// ========== Login ==========

func (h *AuthHandler) Login(c *gin.Context) error {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}

	session, err := h.authService.Login(c.Request.Context(), c.ClientIP(), &req)
	if err != nil {
		return err
	}

	h.setSessionCookies(c, session.Tokens)
	response.Success(c, http.StatusOK, "login successful", gin.H{"user": session.User})
	return nil
}

// Refresh rotates the refresh token taken from the cookie or the body.
func (h *AuthHandler) Refresh(c *gin.Context) error {
	token, _ := c.Cookie(RefreshCookie)
	if token == "" {
		var req user.RefreshRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				return response.BindError(err)
			}
		}
		token = req.RefreshToken
	}

	session, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		if xerrors.KindOf(err) == xerrors.KindUnauthorized {
			h.clearSessionCookies(c)
		}
		return err
	}

	h.setSessionCookies(c, session.Tokens)
	response.Success(c, http.StatusOK, "token refreshed", gin.H{"user": session.User})
	return nil
}

// ========== Logout ==========

// Logout works with or without a valid session and always clears cookies.
func (h *AuthHandler) Logout(c *gin.Context) error {
	claims, _ := middleware.GetClaims(c)
	refresh, _ := c.Cookie(RefreshCookie)

	if err := h.authService.Logout(c.Request.Context(), claims, refresh); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		return err
	}

	h.clearSessionCookies(c)
	response.Success(c, http.StatusOK, "logout successful", nil)
	return nil
}

// ========== Profile ==========

func (h *AuthHandler) Profile(c *gin.Context) error {
	userID, _ := middleware.GetUserID(c)
	u, err := h.authService.Profile(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "profile retrieved", u)
	return nil
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) error {
	userID, _ := middleware.GetUserID(c)

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}

	u, err := h.authService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "profile updated", u)
	return nil
}

// ========== Password Management ==========

func (h *AuthHandler) ChangePassword(c *gin.Context) error {
	userID, _ := middleware.GetUserID(c)

	var req user.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.BindError(err)
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		return err
	}
	response.Success(c, http.StatusOK, "password changed successfully", nil)
	return nil
}

// Verify reports the session behind the current access token.
func (h *AuthHandler) Verify(c *gin.Context) error {
	claims, _ := middleware.GetClaims(c)
	response.Success(c, http.StatusOK, "token is valid", gin.H{
		"user_id":    claims.UserID,
		"email":      claims.Email,
		"role":       claims.Role,
		"expires_at": claims.ExpiresAt.Time,
	})
	return nil
}

// ========== Cookies ==========

func (h *AuthHandler) setSessionCookies(c *gin.Context, tokens auth.TokenPair) {
	h.setCookie(c, middleware.AccessCookie, tokens.AccessToken, tokens.AccessExpiresAt)
	h.setCookie(c, RefreshCookie, tokens.RefreshToken, tokens.RefreshExpiresAt)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	h.setCookie(c, middleware.AccessCookie, "", time.Unix(0, 0))
	h.setCookie(c, RefreshCookie, "", time.Unix(0, 0))
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	} else {
		cookie.MaxAge = int(time.Until(expires).Seconds())
	}
	http.SetCookie(c.Writer, cookie)
}
