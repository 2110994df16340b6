package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"support-desk/internal/controllers"
	"support-desk/internal/services"
	"support-desk/pkg/middleware"
)

func runCategoryRouter(api *echo.Group, categoryService services.CategoryServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	ctrl := controllers.NewCategoryController(categoryService, logger)

	api.GET("/categories", ctrl.GetCategories)
	api.POST("/categories", ctrl.CreateCategory, authMW.Auth)
}
