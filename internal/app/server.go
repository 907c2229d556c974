// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"wecamp-service/internal/config"
	"wecamp-service/internal/db"
	authHandler "wecamp-service/internal/handlers/auth"
	blogHandler "wecamp-service/internal/handlers/blog"
	brandHandler "wecamp-service/internal/handlers/brand"
	campsiteHandler "wecamp-service/internal/handlers/campsite"
	categoryHandler "wecamp-service/internal/handlers/category"
	gearHandler "wecamp-service/internal/handlers/gear"
	notifyH "wecamp-service/internal/handlers/notification"
	orderHandler "wecamp-service/internal/handlers/order"
	referenceHandler "wecamp-service/internal/handlers/reference"
	reservationHandler "wecamp-service/internal/handlers/reservation"
	reviewHandler "wecamp-service/internal/handlers/review"
	systemHandler "wecamp-service/internal/handlers/system"
	uploadHandler "wecamp-service/internal/handlers/upload"
	userHandler "wecamp-service/internal/handlers/user"
	wsHandler "wecamp-service/internal/handlers/websocket"
	"wecamp-service/internal/middleware"
	"wecamp-service/internal/pkg/jwt"
	"wecamp-service/internal/pkg/metrics"
	"wecamp-service/internal/pkg/session"
	"wecamp-service/internal/pkg/storage"
	"wecamp-service/internal/repository/postgres"
	authUsecase "wecamp-service/internal/service/auth"
	blogUsecase "wecamp-service/internal/service/blog"
	brandUsecase "wecamp-service/internal/service/brand"
	campsiteUsecase "wecamp-service/internal/service/campsite"
	categoryUsecase "wecamp-service/internal/service/category"
	"wecamp-service/internal/service/email"
	gearUsecase "wecamp-service/internal/service/gear"
	"wecamp-service/internal/service/health"
	notifyUsecase "wecamp-service/internal/service/notification"
	orderUsecase "wecamp-service/internal/service/order"
	referenceUsecase "wecamp-service/internal/service/reference"
	reservationUsecase "wecamp-service/internal/service/reservation"
	reviewUsecase "wecamp-service/internal/service/review"
	uploadUsecase "wecamp-service/internal/service/upload"
	userUsecase "wecamp-service/internal/service/user"
	"wecamp-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg    config.AppConfig
	logger *zap.Logger
	engine *gin.Engine

	// released in reverse order on shutdown
	closers []func()
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{cfg: cfg, logger: logger, engine: gin.New()}
}

func (s *Server) onClose(fn func()) {
	s.closers = append(s.closers, fn)
}

func (s *Server) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Run wires every dependency, serves HTTP until ctx is cancelled and then
// drains in-flight requests before releasing resources.
func (s *Server) Run(ctx context.Context) error {
	defer s.close()

	if err := s.setup(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.cfg.HTTPAddr), zap.String("env", s.cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	s.logger.Info("server stopped gracefully")
	return nil
}

func (s *Server) setup(ctx context.Context) error {
	cfg := s.cfg
	logger := s.logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, cfg.DB, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.onClose(pool.Close)

	// ----- Session store -----
	var store session.Store
	if cfg.RedisAddr != "" {
		redisClient, err := db.NewRedisClient(db.RedisConfig{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPass,
			PoolSize: 10,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))
		store = session.NewRedisStore(redisClient)
	} else {
		logger.Warn("REDIS_ADDR not set, sessions are kept in memory")
		store = session.NewMemoryStore(time.Minute)
	}
	s.onClose(func() { _ = store.Close() })

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	sessionManager := session.NewManager(store)
	sessionManager.SetAccessTTL(cfg.JWT.TTL)
	throttle := session.NewLoginThrottle(store, cfg.LoginMaxAttempts, cfg.LoginLockoutWindow)

	// ----- Email -----
	emailSender := email.NewEmailSender(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
		cfg.SMTPFromName,
		cfg.SMTPSecure,
	)

	// ----- Storage -----
	disk, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// ----- Repositories -----
	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	gearRepo := postgres.NewGearRepository(pool)
	blogRepo := postgres.NewBlogRepository(pool)
	brandRepo := postgres.NewBrandRepository(pool)
	campsiteRepo := postgres.NewCampsiteRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	referenceRepo := postgres.NewReferenceRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)

	// ----- WebSocket Hub -----
	hubCtx, stopHub := context.WithCancel(context.Background())
	hub := websocket.NewHub(jwtManager.Verifier, sessionManager, logger)
	go hub.Run(hubCtx)
	s.onClose(func() {
		stopHub()
		<-hub.Done()
	})

	notifService := notifyUsecase.NewNotificationService(orderRepo, reviewRepo, reservationRepo, hub, logger)
	hub.RegisterHandler(notifService)

	// ----- Services (Usecases) -----
	authService := authUsecase.NewAuthService(
		userRepo,
		jwtManager,
		sessionManager,
		throttle,
		emailSender,
		cfg.FrontendURL,
		logger,
	)
	categoryService := categoryUsecase.NewCategoryService(categoryRepo, logger)
	gearService := gearUsecase.NewGearService(gearRepo, categoryService, logger)
	blogService := blogUsecase.NewBlogService(blogRepo, logger)
	brandService := brandUsecase.NewBrandService(brandRepo, logger)
	campsiteService := campsiteUsecase.NewCampsiteService(campsiteRepo, logger)
	referenceService := referenceUsecase.NewReferenceService(referenceRepo, logger)
	orderService := orderUsecase.NewOrderService(orderRepo, gearRepo, notifService, logger)
	reservationService := reservationUsecase.NewReservationService(reservationRepo, campsiteRepo, notifService, logger)
	reviewService := reviewUsecase.NewReviewService(reviewRepo, gearRepo, campsiteRepo, notifService, logger)
	userService := userUsecase.NewUserService(userRepo, sessionManager, logger)
	uploadService := uploadUsecase.NewUploadService(disk, cfg.Storage.MaxUploadSize, logger)
	healthService := health.NewHealthService(db.NewHealthChecker(pool, 2*time.Second), time.Now())

	// ----- Bootstrap admin -----
	adminCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := authService.EnsureAdminExists(adminCtx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
		// startup continues; the admin can be created later with create-admin
		logger.Error("failed to ensure admin exists", zap.Error(err))
	}
	cancel()

	// ----- Metrics -----
	m := metrics.New()
	m.TrackWebsocketClients(hub.TotalClients)

	// ----- Rate limiters -----
	generalLimiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow,
		"Too many requests from this IP, please try again later.")
	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimitMax, 15*time.Minute,
		"Too many authentication attempts, please try again later.")
	uploadLimiter := middleware.NewRateLimiter(cfg.UploadRateLimitMax, cfg.RateLimitWindow,
		"Too many uploads, please try again later.")
	s.onClose(generalLimiter.Close)
	s.onClose(authLimiter.Close)
	s.onClose(uploadLimiter.Close)

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RequestID(),
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(cfg.AllowedOrigins),
		m.Middleware(),
		middleware.BodyLimit(cfg.MaxJSONSize),
		middleware.ErrorHandler(logger),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:        authHandler.NewAuthHandler(authService, cfg.IsProduction(), logger),
		CategoryHandler:    categoryHandler.NewCategoryHandler(categoryService),
		GearHandler:        gearHandler.NewGearHandler(gearService, uploadService),
		BlogHandler:        blogHandler.NewBlogHandler(blogService),
		ReviewHandler:      reviewHandler.NewReviewHandler(reviewService),
		CampsiteHandler:    campsiteHandler.NewCampsiteHandler(campsiteService),
		ReservationHandler: reservationHandler.NewReservationHandler(reservationService),
		OrderHandler:       orderHandler.NewOrderHandler(orderService),
		ReferenceHandler:   referenceHandler.NewReferenceHandler(referenceService),
		BrandHandler:       brandHandler.NewBrandHandler(brandService),
		UserHandler:        userHandler.NewUserHandler(userService),
		NotifHandler:       notifyH.NewNotificationHandler(notifService),
		UploadHandler:      uploadHandler.NewUploadHandler(uploadService),
		SystemHandler:      systemHandler.NewSystemHandler(healthService, cfg.FrontendURL),
		WSHandler:          wsHandler.NewWebSocketHandler(hub, cfg.AllowedOrigins, logger),
		AuthMiddleware:     middleware.NewAuthMiddleware(jwtManager.Verifier, sessionManager, logger),
		GeneralLimiter:     generalLimiter,
		AuthLimiter:        authLimiter,
		UploadLimiter:      uploadLimiter,
		Metrics:            m,
		QueryTimeout:       cfg.DB.QueueTimeout,
	}
	if local, ok := disk.(*storage.LocalDisk); ok {
		handlers.UploadRoot = local.Root()
	}
	SetupRouter(s.engine, handlers)

	return nil
}

// CreateAdmin connects to the database and ensures the given admin account
// exists. It backs the create-admin command.
func CreateAdmin(ctx context.Context, cfg config.AppConfig, logger *zap.Logger, addr, password, name string) error {
	pool, err := db.ConnectDB(ctx, cfg.DB, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pool.Close()

	// only the user repository is needed to create an account
	authService := authUsecase.NewAuthService(postgres.NewUserRepository(pool), nil, nil, nil, nil, cfg.FrontendURL, logger)
	return authService.EnsureAdminExists(ctx, addr, password, name)
}

// Migrate applies the embedded schema.
func Migrate(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) error {
	pool, err := db.ConnectDB(ctx, cfg.DB, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pool.Close()
	return db.Migrate(ctx, pool, logger)
}
