package main

import (
	"context"
	"embed"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"erp-system/internal/repositories"
	"erp-system/internal/routes"
	"erp-system/pkg/config"
	"erp-system/pkg/customvalidator"
	"erp-system/pkg/database/postgresql"
	"erp-system/pkg/logger"
	"erp-system/pkg/service"
	"erp-system/pkg/utils"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg := config.New()

	// База и миграции
	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()

	if err := postgresql.RunMigrations(cfg.Postgres.DSN, embeddedMigrations); err != nil {
		log.Fatal("Миграции не применились", zap.Error(err))
	}

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Redis недоступен", zap.Error(err))
	}
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, log)

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		log.Fatal("Не удалось зарегистрировать валидаторы", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	routes.InitRouter(e, dbConn, cacheRepo, jwtSvc, cfg, log)

	log.Info("Сервер запускается", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
		log.Fatal("Сервер остановлен с ошибкой", zap.Error(err))
	}
}
