// internal/app/router.go
package app

import (
	"time"

	authHandler "wecamp-service/internal/handlers/auth"
	blogHandler "wecamp-service/internal/handlers/blog"
	brandHandler "wecamp-service/internal/handlers/brand"
	campsiteHandler "wecamp-service/internal/handlers/campsite"
	categoryHandler "wecamp-service/internal/handlers/category"
	gearHandler "wecamp-service/internal/handlers/gear"
	notifyHandler "wecamp-service/internal/handlers/notification"
	orderHandler "wecamp-service/internal/handlers/order"
	referenceHandler "wecamp-service/internal/handlers/reference"
	reservationHandler "wecamp-service/internal/handlers/reservation"
	reviewHandler "wecamp-service/internal/handlers/review"
	systemHandler "wecamp-service/internal/handlers/system"
	uploadHandler "wecamp-service/internal/handlers/upload"
	userHandler "wecamp-service/internal/handlers/user"
	wsHandler "wecamp-service/internal/handlers/websocket"
	"wecamp-service/internal/middleware"
	"wecamp-service/internal/pkg/metrics"
	"wecamp-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler        *authHandler.AuthHandler
	CategoryHandler    *categoryHandler.CategoryHandler
	GearHandler        *gearHandler.GearHandler
	BlogHandler        *blogHandler.BlogHandler
	ReviewHandler      *reviewHandler.ReviewHandler
	CampsiteHandler    *campsiteHandler.CampsiteHandler
	ReservationHandler *reservationHandler.ReservationHandler
	OrderHandler       *orderHandler.OrderHandler
	ReferenceHandler   *referenceHandler.ReferenceHandler
	BrandHandler       *brandHandler.BrandHandler
	UserHandler        *userHandler.UserHandler
	NotifHandler       *notifyHandler.NotificationHandler
	UploadHandler      *uploadHandler.UploadHandler
	SystemHandler      *systemHandler.SystemHandler
	WSHandler          *wsHandler.WebSocketHandler
	AuthMiddleware     *middleware.AuthMiddleware

	GeneralLimiter *middleware.RateLimiter
	AuthLimiter    *middleware.RateLimiter
	UploadLimiter  *middleware.RateLimiter
	Metrics        *metrics.Metrics

	// UploadRoot is served under /uploads when files are stored locally.
	UploadRoot   string
	QueryTimeout time.Duration
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	wrap := response.Handle
	mw := h.AuthMiddleware
	admin := mw.AdminOnly()

	// ==================== System ====================
	r.GET("/health", h.SystemHandler.Health)
	r.GET("/robots.txt", h.SystemHandler.Robots)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}
	if h.UploadRoot != "" {
		r.Static("/uploads", h.UploadRoot)
		r.Static("/api/uploads", h.UploadRoot)
	}
	r.NoRoute(h.SystemHandler.NotFound)

	// ==================== WebSocket ====================
	r.GET("/ws/admin", h.WSHandler.HandleConnection)

	api := r.Group("/api")
	api.Use(middleware.ContextTimeout(h.QueryTimeout))
	if h.GeneralLimiter != nil {
		api.Use(h.GeneralLimiter.Middleware())
	}
	api.GET("/health", h.SystemHandler.Health)

	// ==================== Auth ====================
	authGroup := api.Group("/auth")
	{
		limited := authGroup.Group("")
		if h.AuthLimiter != nil {
			limited.Use(h.AuthLimiter.Middleware())
		}
		limited.POST("/register", wrap(h.AuthHandler.Register))
		limited.POST("/login", wrap(h.AuthHandler.Login))

		authGroup.POST("/refresh", wrap(h.AuthHandler.Refresh))
		authGroup.POST("/logout", mw.OptionalAuth(), wrap(h.AuthHandler.Logout))

		protected := authGroup.Group("", mw.Auth())
		protected.GET("/profile", wrap(h.AuthHandler.Profile))
		protected.PUT("/profile", wrap(h.AuthHandler.UpdateProfile))
		protected.PUT("/change-password", wrap(h.AuthHandler.ChangePassword))
		protected.GET("/verify", wrap(h.AuthHandler.Verify))
	}

	// ==================== Categories ====================
	categories := api.Group("/categories")
	{
		categories.GET("", wrap(h.CategoryHandler.List))
		categories.GET("/tree", wrap(h.CategoryHandler.Tree))
		categories.GET("/resolve", wrap(h.CategoryHandler.Resolve))
		categories.GET("/slug/:slug", wrap(h.CategoryHandler.GetBySlug))
		categories.GET("/slug/:slug/scope", wrap(h.CategoryHandler.Scope))
		categories.GET("/:id", wrap(h.CategoryHandler.Get))

		managed := categories.Group("", admin...)
		managed.POST("", wrap(h.CategoryHandler.Create))
		managed.POST("/import", wrap(h.CategoryHandler.Import))
		managed.PUT("/:id", wrap(h.CategoryHandler.Update))
		managed.DELETE("/:id", wrap(h.CategoryHandler.Delete))
	}

	// ==================== Gear ====================
	gear := api.Group("/gear")
	{
		gear.GET("", wrap(h.GearHandler.List))
		gear.GET("/search", wrap(h.GearHandler.Search))
		gear.GET("/category/:category", wrap(h.GearHandler.GetByCategory))
		gear.GET("/:id", wrap(h.GearHandler.Get))
		gear.GET("/:id/recommended", wrap(h.GearHandler.Recommended))

		owned := gear.Group("", mw.Auth())
		owned.POST("", wrap(h.GearHandler.Create))
		owned.PUT("/:id", wrap(h.GearHandler.Update))
		owned.DELETE("/:id", wrap(h.GearHandler.Delete))
	}

	// ==================== Blog ====================
	blog := api.Group("/blog")
	{
		blog.GET("", mw.OptionalAuth(), wrap(h.BlogHandler.List))
		blog.GET("/:idOrSlug", mw.OptionalAuth(), wrap(h.BlogHandler.Get))

		managed := blog.Group("", admin...)
		managed.POST("", wrap(h.BlogHandler.Create))
		managed.PUT("/:id", wrap(h.BlogHandler.Update))
		managed.DELETE("/:id", wrap(h.BlogHandler.Delete))
	}

	// ==================== Reviews ====================
	reviews := api.Group("/reviews")
	{
		reviews.GET("", wrap(h.ReviewHandler.List))
		reviews.POST("", mw.Auth(), wrap(h.ReviewHandler.Create))
		reviews.DELETE("/:id", mw.Auth(), wrap(h.ReviewHandler.Delete))
	}

	// ==================== Campsites ====================
	campsites := api.Group("/campsites")
	{
		campsites.GET("", wrap(h.CampsiteHandler.List))
		campsites.GET("/:id", wrap(h.CampsiteHandler.Get))

		managed := campsites.Group("", admin...)
		managed.POST("", wrap(h.CampsiteHandler.Create))
		managed.PUT("/:id", wrap(h.CampsiteHandler.Update))
		managed.DELETE("/:id", wrap(h.CampsiteHandler.Delete))
	}

	// ==================== Reservations ====================
	reservations := api.Group("/reservations", mw.Auth())
	{
		reservations.GET("", wrap(h.ReservationHandler.List))
		reservations.POST("", wrap(h.ReservationHandler.Create))
		reservations.GET("/:id", wrap(h.ReservationHandler.Get))
		reservations.PUT("/:id/cancel", wrap(h.ReservationHandler.Cancel))
		reservations.PUT("/:id/status", mw.RequireAdmin(), wrap(h.ReservationHandler.UpdateStatus))
	}

	// ==================== Orders ====================
	orders := api.Group("/orders", mw.Auth())
	{
		orders.GET("", wrap(h.OrderHandler.List))
		orders.POST("", wrap(h.OrderHandler.Create))
		orders.GET("/:id", wrap(h.OrderHandler.Get))
		orders.PUT("/:id", wrap(h.OrderHandler.Update))
		orders.DELETE("/:id", wrap(h.OrderHandler.Delete))
	}

	// ==================== References & Brands ====================
	references := api.Group("/references")
	{
		references.GET("", wrap(h.ReferenceHandler.List))
		references.GET("/:id", wrap(h.ReferenceHandler.Get))

		managed := references.Group("", admin...)
		managed.POST("", wrap(h.ReferenceHandler.Create))
		managed.PUT("/:id", wrap(h.ReferenceHandler.Update))
		managed.DELETE("/:id", wrap(h.ReferenceHandler.Delete))
	}

	brands := api.Group("/brands")
	{
		brands.GET("", wrap(h.BrandHandler.List))
		brands.GET("/:id", wrap(h.BrandHandler.Get))

		managed := brands.Group("", admin...)
		managed.POST("", wrap(h.BrandHandler.Create))
		managed.PUT("/:id", wrap(h.BrandHandler.Update))
		managed.DELETE("/:id", wrap(h.BrandHandler.Delete))
	}

	// ==================== Users (admin) ====================
	users := api.Group("/users", admin...)
	{
		users.GET("", wrap(h.UserHandler.List))
		users.GET("/:id", wrap(h.UserHandler.Get))
		users.PUT("/:id", wrap(h.UserHandler.Update))
		users.DELETE("/:id", wrap(h.UserHandler.Delete))
	}

	// ==================== Admin ====================
	adminGroup := api.Group("/admin", admin...)
	{
		adminGroup.GET("/notifications/counts", wrap(h.NotifHandler.Counts))
		adminGroup.GET("/ws/stats", h.WSHandler.GetStats)
	}

	// ==================== Uploads ====================
	uploads := api.Group("/upload", mw.Auth())
	if h.UploadLimiter != nil {
		uploads.Use(h.UploadLimiter.Middleware())
	}
	{
		uploads.POST("/image", wrap(h.UploadHandler.Image))
		uploads.POST("/images", wrap(h.UploadHandler.Images))
	}
}
