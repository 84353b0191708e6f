package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"coursecatalog/internal/application/usecase"
	"coursecatalog/internal/config"
	"coursecatalog/internal/domain"
	"coursecatalog/internal/infrastructure/cache"
	emailinfra "coursecatalog/internal/infrastructure/email"
	"coursecatalog/internal/infrastructure/media"
	"coursecatalog/internal/infrastructure/repository"
	"coursecatalog/internal/infrastructure/security"
	"coursecatalog/internal/middleware"
	handlers "coursecatalog/internal/transport/http"
	"coursecatalog/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}

	appLog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer appLog.Sync()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		appLog.Fatal("DB connect failed", "error", err)
	}

	if err := db.AutoMigrate(&domain.Course{}, &domain.Lesson{}, &domain.Email{}); err != nil {
		appLog.Fatal("DB migrate failed", "error", err)
	}

	seedCourses(db, appLog)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		appLog.Fatal("Redis connect failed", "addr", cfg.RedisAddr, "error", err)
	}
	appLog.Info("Connected to Redis", "addr", cfg.RedisAddr)

	// Media storage is wired here once; nothing initializes it as a
	// side effect of imports.
	storage, err := media.NewStorage(
		context.Background(),
		cfg.MinioEndpoint,
		cfg.MinioAccessKey,
		cfg.MinioSecretKey,
		cfg.MinioBucket,
		cfg.MinioUseSSL,
	)
	if err != nil {
		appLog.Fatal("Media storage init failed", "endpoint", cfg.MinioEndpoint, "error", err)
	}
	appLog.Info("Media storage ready", "bucket", cfg.MinioBucket)

	courseRepo := repository.NewCourseRepository(db, rdb)
	emailRepo := repository.NewEmailRepository(db)
	tokenCache := cache.NewVerificationCache(rdb)
	sessions := security.NewSessionManager(cfg.JWTSecret)
	hasher := security.NewPasswordHasher()
	sender := emailinfra.NewEmailSender(cfg.SendgridAPIKey, cfg.SenderEmail, cfg.FrontendURL)

	catalogUC := usecase.NewCatalogUseCase(courseRepo, storage, appLog)
	accessUC := usecase.NewAccessUseCase(emailRepo, tokenCache, sessions, sender, appLog)
	adminUC := usecase.NewAdminUseCase(courseRepo, storage, appLog)

	courseHandler := handlers.NewCourseHandler(catalogUC)
	accessHandler := handlers.NewAccessHandler(accessUC)
	adminHandler := handlers.NewAdminHandler(adminUC)

	limiter := middleware.NewRateLimiter(rdb)

	var origins []string
	if cfg.AllowedOrigins != "" {
		origins = strings.Split(cfg.AllowedOrigins, ",")
	}

	router := handlers.NewRouter(
		courseHandler,
		accessHandler,
		adminHandler,
		limiter,
		middleware.ViewerSession(accessUC),
		middleware.AdminAuth(hasher, cfg.AdminPasswordHash),
		origins,
	)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	appLog.Info("Catalog service running", "port", port)
	if err := router.Run(":" + port); err != nil {
		appLog.Fatal("Serve failed", "error", err)
	}
}

func seedCourses(db *gorm.DB, appLog *logger.Logger) {
	var count int64
	db.Model(&domain.Course{}).Count(&count)
	if count > 0 {
		return
	}

	repo := repository.NewCourseRepository(db, nil)
	courses := []domain.Course{
		{
			Title:       "Python Full Course",
			Description: "Web development with Python and Django, from first steps to deployment.",
			Access:      domain.AccessEmailRequired,
			Status:      domain.StatusPublished,
		},
		{
			Title:       "Intro to Testing",
			Description: "Unit tests, fixtures and CI for people who ship.",
			Access:      domain.AccessAnyone,
			Status:      domain.StatusComingSoon,
		},
	}
	for i := range courses {
		if err := repo.Create(context.Background(), &courses[i]); err != nil {
			appLog.Warn("Seed course failed", "title", courses[i].Title, "error", err)
		}
	}
	appLog.Info("DB seeded with default courses")
}
