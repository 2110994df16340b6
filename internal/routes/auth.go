package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"support-desk/internal/controllers"
	"support-desk/internal/services"
)

func runAuthRouter(api *echo.Group, authService services.AuthServiceInterface, logger *zap.Logger) {
	authCtrl := controllers.NewAuthController(authService, logger)

	auth := api.Group("/auth")
	auth.POST("/login", authCtrl.Login)
	auth.POST("/refresh", authCtrl.RefreshToken)
}
