package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"support-desk/internal/controllers"
	"support-desk/internal/services"
	"support-desk/pkg/middleware"
)

func runCompanyRouter(api *echo.Group, companyService services.CompanyServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewCompanyController(companyService, logger)

	api.GET("/companies", ctrl.GetCompanies)
	api.GET("/companies/:id", ctrl.FindCompany)
	api.GET("/companies/:id/stats", ctrl.GetCompanyStats)
	api.POST("/companies", ctrl.CreateCompany, authMW.Auth)
	api.PUT("/companies/:id", ctrl.UpdateCompany, authMW.Auth)
	api.DELETE("/companies/:id", ctrl.DeleteCompany, authMW.Auth)
}
