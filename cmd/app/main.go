package main

import (
	"context"
	"log"
	"net/http"

	"github.com/KaranGhugal/STM/external/resend"

	"github.com/KaranGhugal/STM/internal/config"
	"github.com/KaranGhugal/STM/internal/db"
	"github.com/KaranGhugal/STM/internal/middleware"
	"github.com/KaranGhugal/STM/internal/repository"
	"github.com/KaranGhugal/STM/internal/rolecache"
	"github.com/KaranGhugal/STM/internal/services"
	"github.com/KaranGhugal/STM/internal/uploads"
	"github.com/KaranGhugal/STM/internal/worker"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	roleCache := rolecache.New(rdb, cfg.RoleCacheTTL)

	// ======================
	// EXTERNALS
	// ======================
	var mailer services.EmailSender
	if cfg.ResendAPIKey != "" {
		mailer, err = resend.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		log.Println("RESEND_API_KEY not set, mail goes to the log")
		mailer = services.NewLogMailer()
	}

	photos := uploads.NewStore(cfg.UploadDir)
	tokens := middleware.NewTokenService(cfg.JWTSecret)
	if cfg.JWTSecret == "" {
		log.Println("warning: JWT_SECRET not set, logins will fail until it is configured")
	}

	// ======================
	// REPOSITORIES
	// ======================
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	verifyRepo := repository.NewEmailVerificationRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	historyRepo := repository.NewLoginHistoryRepository(pool)

	// ======================
	// SERVICES
	// ======================
	userSvc := services.NewUserService(userRepo, roleRepo, verifyRepo, resetRepo, historyRepo, taskRepo, mailer, photos, cfg.FrontendURL)
	roleSvc := services.NewRoleService(roleRepo, userRepo, roleCache)
	taskSvc := services.NewTaskService(taskRepo, userRepo)

	// ======================
	// BACKGROUND WORK
	// ======================
	reminder := worker.NewReminder(taskRepo, userRepo, verifyRepo, resetRepo, mailer, cfg.ReminderInterval)
	go reminder.Run(ctx)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.Static("/uploads", cfg.UploadDir)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	api := e.Group("/api")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerUserRoutes(api, userSvc, tokens, photos)
	registerRoleRoutes(api, roleSvc, tokens)
	registerTaskRoutes(api, taskSvc, tokens)
	registerNotificationRoutes(api, taskSvc, reminder, tokens)

	// ======================
	// SERVER
	// ======================
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
