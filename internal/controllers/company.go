package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"support-desk/internal/dto"
	"support-desk/internal/services"
	"support-desk/pkg/middleware"
	"support-desk/pkg/utils"
)

type CompanyController struct {
	companyService services.CompanyServiceInterface
	logger         *zap.Logger
}

func NewCompanyController(companyService services.CompanyServiceInterface, logger *zap.Logger) *CompanyController {
	return &CompanyController{companyService: companyService, logger: logger}
}

func (c *CompanyController) GetCompanies(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	list, err := c.companyService.GetCompanies(ctx.Request().Context(), filter.Search)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessListResponse(ctx, list, filter, "Список компаний успешно получен")
}

func (c *CompanyController) FindCompany(ctx echo.Context) error {
	res, err := c.companyService.FindCompany(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Компания успешно найдена", http.StatusOK)
}

// GetCompanyStats - карточка компании за период (?range=).
func (c *CompanyController) GetCompanyStats(ctx echo.Context) error {
	res, err := c.companyService.GetCompanyDetails(ctx.Request().Context(), ctx.Param("id"), ctx.QueryParam("range"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Статистика компании получена", http.StatusOK)
}

func (c *CompanyController) CreateCompany(ctx echo.Context) error {
	var payload dto.CreateCompanyDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx := ctx.Request().Context()
	res, err := c.companyService.CreateCompany(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	c.logger.Info("Компания создана", zap.String("id", res.ID), zap.String("operator", middleware.OperatorFromContext(reqCtx)))
	return utils.SuccessResponse(ctx, res, "Компания успешно создана", http.StatusCreated)
}

func (c *CompanyController) UpdateCompany(ctx echo.Context) error {
	var payload dto.UpdateCompanyDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.companyService.UpdateCompany(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Компания успешно обновлена", http.StatusOK)
}

func (c *CompanyController) DeleteCompany(ctx echo.Context) error {
	if err := c.companyService.DeleteCompany(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Компания успешно удалена", http.StatusOK)
}
