package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"support-desk/internal/dto"
	"support-desk/internal/services"
	"support-desk/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := bindAndValidate(c, &payload); err != nil {
		ctrl.logger.Warn("Login: неверные данные", zap.Error(err))
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	res, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Авторизация прошла успешно", http.StatusOK)
}

func (ctrl *AuthController) RefreshToken(c echo.Context) error {
	var payload dto.RefreshTokenDTO
	if err := bindAndValidate(c, &payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	res, err := ctrl.authService.Refresh(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, res, "Токены успешно обновлены", http.StatusOK)
}
