package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"imagencali/internal/config"
	"imagencali/internal/database"
	"imagencali/internal/middleware"
	"imagencali/internal/modules/admin"
	"imagencali/internal/modules/auth"
	"imagencali/internal/modules/gallery"
	"imagencali/internal/modules/maintenance"
	"imagencali/internal/modules/upload"
	jwtsvc "imagencali/internal/pkg/jwt"
	"imagencali/internal/pkg/response"
	"imagencali/internal/repository"
	"imagencali/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	attemptRepo := repository.NewLoginAttemptRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	store, err := storage.NewR2Store(ctx,
		fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID),
		cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2Bucket)
	if err != nil {
		log.Fatal(err)
	}

	authService := auth.NewService(userRepo, tokenRepo, attemptRepo, auditRepo, j)
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
		Path:     cfg.CookiePath,
		MaxAge:   cfg.RefreshTTL,
	})

	galleryHandler := gallery.NewHandler(gallery.NewService(store))

	uploadService := upload.NewService(store, cfg.MaxUploadSize, cfg.MaxImageDimension, cfg.MaxOptimizedSize)
	uploadHandler := upload.NewHandler(uploadService, cfg.MaxUploadSize)

	adminService := admin.NewService(userRepo, tokenRepo, auditRepo)
	adminHandler := admin.NewHandler(adminService)

	sweeper := maintenance.NewSweeper(tokenRepo, attemptRepo, cfg.SweepRetention)
	stopSweep := sweeper.Start(ctx, cfg.CleanupInterval)
	defer close(stopSweep)

	apiLimit := middleware.NewRateLimiter(100, 15*time.Minute)
	loginLimit := middleware.NewRateLimiter(5, 15*time.Minute)
	uploadLimit := middleware.NewRateLimiter(10, time.Hour)

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorLogger(!cfg.IsProd()))
	r.Use(middleware.CORS([]string{cfg.ClientURL}))

	api := r.Group("/api")
	api.Use(apiLimit.Middleware())
	{
		api.GET("/health", func(c *gin.Context) {
			response.Success(c, http.StatusOK, gin.H{"status": "ok"})
		})

		authHandler.RegisterPublicRoutes(api, loginLimit.Middleware())

		protected := api.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			galleryHandler.RegisterProtectedRoutes(protected)
			uploadHandler.RegisterProtectedRoutes(protected, uploadLimit.Middleware())

			adminGroup := protected.Group("/admin")
			adminGroup.Use(middleware.AdminOnly())
			{
				adminHandler.RegisterAdminRoutes(adminGroup)
			}
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
