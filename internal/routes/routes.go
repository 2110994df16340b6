package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"support-desk/internal/controllers"
	"support-desk/internal/repositories"
	"support-desk/internal/services"
	"support-desk/pkg/config"
	"support-desk/pkg/eventbus"
	"support-desk/pkg/middleware"
	"support-desk/pkg/service"
	"support-desk/pkg/websocket"
)

type Loggers struct {
	Main   *zap.Logger
	Auth   *zap.Logger
	Ticket *zap.Logger
}

// Services - всё, что нужно маршрутам; собирается в BuildServices или в тестах.
type Services struct {
	Auth     services.AuthServiceInterface
	Company  services.CompanyServiceInterface
	Category services.CategoryServiceInterface
	Ticket   services.TicketServiceInterface
	Comment  services.CommentServiceInterface
	Report   services.ReportServiceInterface
}

// BuildServices создаёт репозитории и сервисы поверх общего пула и снимка.
func BuildServices(
	dbConn *pgxpool.Pool,
	cacheRepo repositories.CacheRepositoryInterface,
	snapshot services.SnapshotSource,
	bus *eventbus.Bus,
	jwtSvc service.JWTService,
	clock services.Clock,
	cfg *config.Config,
	loggers *Loggers,
) Services {
	txManager := repositories.NewTxManager(dbConn)

	companyRepo := repositories.NewCompanyRepository(dbConn, loggers.Main)
	categoryRepo := repositories.NewCategoryRepository(dbConn)
	ticketRepo := repositories.NewTicketRepository(dbConn, loggers.Ticket)
	commentRepo := repositories.NewCommentRepository(dbConn)

	return Services{
		Auth:     services.NewAuthService(cfg.Operator, jwtSvc, cacheRepo, loggers.Auth),
		Company:  services.NewCompanyService(companyRepo, snapshot, bus, clock, loggers.Main),
		Category: services.NewCategoryService(categoryRepo, snapshot, bus, loggers.Main),
		Ticket: services.NewTicketService(
			ticketRepo, companyRepo, categoryRepo, txManager, snapshot, bus, clock, loggers.Ticket,
		),
		Comment: services.NewCommentService(commentRepo, ticketRepo, bus, loggers.Ticket),
		Report:  services.NewReportService(snapshot, clock, loggers.Main),
	}
}

// InitRouter: чтение открыто, изменения только с access-токеном оператора.
func InitRouter(
	e *echo.Echo,
	svc Services,
	hub *websocket.Hub,
	jwtSvc service.JWTService,
	cfg *config.Config,
	loggers *Loggers,
) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)

	runAuthRouter(api, svc.Auth, loggers.Auth)
	runCompanyRouter(api, svc.Company, loggers.Main, authMW)
	runCategoryRouter(api, svc.Category, loggers.Main, authMW)
	runTicketRouter(api, svc.Ticket, svc.Comment, loggers.Ticket, authMW)
	runReportRouter(api, svc.Report, loggers.Main)

	if hub != nil {
		wsCtrl := controllers.NewWebSocketController(hub, cfg.Server.AllowedOrigins, loggers.Main)
		api.GET("/ws", wsCtrl.ServeWs)
	}

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}
