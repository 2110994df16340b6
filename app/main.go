package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"support-desk/internal/listeners"
	"support-desk/internal/repositories"
	"support-desk/internal/routes"
	"support-desk/internal/services"
	"support-desk/internal/snapshot"
	"support-desk/pkg/config"
	"support-desk/pkg/customvalidator"
	"support-desk/pkg/database/migrations"
	"support-desk/pkg/database/postgresql"
	apperrors "support-desk/pkg/errors"
	"support-desk/pkg/eventbus"
	applogger "support-desk/pkg/logger"
	appmiddleware "support-desk/pkg/middleware"
	"support-desk/pkg/service"
	"support-desk/pkg/telegram"
	"support-desk/pkg/utils"
	"support-desk/pkg/websocket"
)

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))
	e.Use(appmiddleware.RequestLogger(logger))

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("Ошибка регистрации кастомных правил валидации", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()
	if err := migrations.Up(dbConn, logger); err != nil {
		logger.Fatal("Не удалось применить миграции", zap.Error(err))
	}

	// Без Redis сервис работает, снимки просто читаются из БД каждый раз.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	if err := cacheRepo.Ping(ctx); err != nil {
		logger.Warn("Redis недоступен, кеш снимков отключён до восстановления", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	loggers := &routes.Loggers{
		Main:   logger,
		Auth:   logger.Named("auth"),
		Ticket: logger.Named("ticket"),
	}

	loader := repositories.NewSnapshotLoader(
		repositories.NewCompanyRepository(dbConn, logger),
		repositories.NewTicketRepository(dbConn, loggers.Ticket),
		repositories.NewCategoryRepository(dbConn),
	)
	holder := snapshot.NewHolder(
		snapshot.NewCachedLoader(loader, cacheRepo, cfg.Redis.SnapshotTTL, logger.Named("snapshot")),
		logger.Named("snapshot"),
	)
	if _, err := holder.Refresh(ctx); err != nil {
		logger.Warn("Первый снимок не загружен, повторим при первом запросе", zap.Error(err))
	}

	hub := websocket.NewHub(logger.Named("ws"))
	go hub.Run(ctx)

	bus := eventbus.New(logger)
	listeners.NewBroadcastListener(hub, logger).Register(bus)
	var tg telegram.ServiceInterface
	if cfg.Telegram.BotToken != "" {
		tg = telegram.NewService(cfg.Telegram.BotToken)
	}
	listeners.NewTelegramListener(tg, cfg.Telegram.ChatID, logger.Named("telegram")).Register(bus)

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	clock := services.NewClock(cfg.Server.Location)

	svc := routes.BuildServices(dbConn, cacheRepo, holder, bus, jwtSvc, clock, cfg, loggers)
	routes.InitRouter(e, svc, hub, jwtSvc, cfg, loggers)

	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port), zap.String("timezone", cfg.Server.Location.String()))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Остановка сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка при остановке сервера", zap.Error(err))
	}
	bus.Wait()
	logger.Info("Сервер остановлен")
}
