package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"support-desk/internal/controllers"
	"support-desk/internal/services"
)

func runReportRouter(api *echo.Group, reportService services.ReportServiceInterface, logger *zap.Logger) {
	reportCtrl := controllers.NewReportController(reportService, logger)
	dashboardCtrl := controllers.NewDashboardController(reportService, logger)

	api.GET("/reports", reportCtrl.GetReport)
	api.GET("/dashboard", dashboardCtrl.GetOverview)
	api.GET("/schedule", dashboardCtrl.GetSchedule)
}
