package controllers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"support-desk/internal/export"
	"support-desk/internal/services"
	apperrors "support-desk/pkg/errors"
	"support-desk/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// GetReport: ?range=&company=&format=
// Без format отчёт отдаётся в обычном конверте, json и xlsx - файлом.
func (c *ReportController) GetReport(ctx echo.Context) error {
	format := strings.ToLower(strings.TrimSpace(ctx.QueryParam("format")))
	c.logger.Debug("Запрос на отчёт",
		zap.String("range", ctx.QueryParam("range")),
		zap.String("company", ctx.QueryParam("company")),
		zap.String("format", format),
	)

	report, err := c.reportService.GetReport(ctx.Request().Context(), ctx.QueryParam("range"), ctx.QueryParam("company"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	switch format {
	case "":
		return utils.SuccessResponse(ctx, report, "Отчёт успешно сформирован", http.StatusOK)
	case export.FormatJSON:
		ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+export.FileName(report.GeneratedAt, export.FormatJSON))
		return ctx.JSONPretty(http.StatusOK, report, "  ")
	case export.FormatXLSX:
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, *report); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+export.FileName(report.GeneratedAt, export.FormatXLSX))
		return ctx.Blob(http.StatusOK, export.XLSXContentType, buf.Bytes())
	}

	return utils.ErrorResponse(ctx, apperrors.NewValidationError("format", "допустимо json или xlsx"), c.logger)
}
