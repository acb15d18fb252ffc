package main

import (
	"clinicportal/cmd/internal/config"
	"clinicportal/cmd/internal/domain/database"
	"clinicportal/cmd/internal/domain/database/repository"
	"clinicportal/cmd/internal/domain/entity"
	"clinicportal/cmd/internal/routes"
	"clinicportal/cmd/internal/service"
	"clinicportal/cmd/internal/utils/validators"
	"errors"
	"io/fs"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	validate := validator.New()
	registerValidators(validate)

	// .env is optional, the real environment wins anyway
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal("failed to load .env file", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", err)
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}

	// Getting repositories
	userRepo := repository.NewUserRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)

	// Getting services
	userService := service.NewUserService(userRepo, validate)
	apptService := service.NewAppointmentService(apptRepo, userRepo, validate)

	if cfg.AdminSub != "" {
		if err := userService.EnsureAdmin(cfg.AdminSub, cfg.AdminEmail); err != nil {
			log.Fatal("failed to create bootstrap admin", err)
		}
	}

	// Getting routes
	userRoutes := routes.NewUserDefault(userService)
	apptRoutes := routes.NewAppointmentDefault(apptService)

	e := echo.New()
	e.Logger.SetLevel(log.INFO)
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: []string{cfg.CorsOrigin}}))

	routes.Register(e, apptRoutes, userRoutes, cfg.JWTSecret)

	err = e.Start(":" + cfg.Port)
	if err != nil {
		e.Logger.Fatal(err)
	}
}

func registerValidators(validate *validator.Validate) {
	validators.Register(validate)
	entity.RegisterValidators(validate)
}
