package main

import (
	"log"
	"net/http"

	_ "foodlink/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"foodlink/internal/auth"
	"foodlink/internal/cache"
	"foodlink/internal/config"
	"foodlink/internal/db"
	"foodlink/internal/events"
	"foodlink/internal/handler"
	"foodlink/internal/model"
	"foodlink/internal/repository"
	"foodlink/internal/router"
	"foodlink/internal/service"
)

// @title Foodlink API
// @version 1.0
// @description Donation-matching backend connecting food donors with donees.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Donation{},
		&model.Appointment{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	producer, err := events.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		// The API works without the event stream; keep serving.
		log.Printf("kafka init: %v (events disabled)", err)
		producer = nil
	}
	defer producer.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	donationRepo := repository.NewDonationRepository(gormDB)
	appointmentRepo := repository.NewAppointmentRepository(gormDB)

	// Initialize auth components
	tokenService := auth.NewTokenService(cfg.JWTSecret)

	// Initialize live feed hub
	feed := handler.NewDonationFeed()

	// Initialize services
	authService := service.NewAuthService(userRepo, tokenService, producer)
	userService := service.NewUserService(userRepo, cacheClient)
	donationService := service.NewDonationService(donationRepo, appointmentRepo, userRepo, cacheClient, producer, feed)
	appointmentService := service.NewAppointmentService(appointmentRepo, donationRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	donationHandler := handler.NewDonationHandler(donationService)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService)

	// Register routes
	router.Register(
		e,
		tokenService,
		cacheClient,
		authHandler,
		userHandler,
		donationHandler,
		appointmentHandler,
		feed,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
