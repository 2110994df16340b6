package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"support-desk/internal/services"
	"support-desk/pkg/utils"
)

type DashboardController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewDashboardController(reportService services.ReportServiceInterface, logger *zap.Logger) *DashboardController {
	return &DashboardController{reportService: reportService, logger: logger}
}

func (ctrl *DashboardController) GetOverview(c echo.Context) error {
	stats, err := ctrl.reportService.GetOverview(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, stats, "Статистика для дашборда получена", http.StatusOK)
}

// GetSchedule: ?date=YYYY-MM-DD, по умолчанию текущая неделя.
func (ctrl *DashboardController) GetSchedule(c echo.Context) error {
	schedule, err := ctrl.reportService.GetSchedule(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, schedule, "Расписание получено", http.StatusOK)
}
