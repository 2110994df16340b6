package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"support-desk/internal/dto"
	"support-desk/internal/services"
	"support-desk/pkg/utils"
)

type CategoryController struct {
	categoryService services.CategoryServiceInterface
	logger          *zap.Logger
}

func NewCategoryController(categoryService services.CategoryServiceInterface, logger *zap.Logger) *CategoryController {
	return &CategoryController{categoryService: categoryService, logger: logger}
}

func (c *CategoryController) GetCategories(ctx echo.Context) error {
	list, err := c.categoryService.GetCategories(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Список категорий успешно получен", http.StatusOK)
}

func (c *CategoryController) CreateCategory(ctx echo.Context) error {
	var payload dto.CreateCategoryDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.categoryService.CreateCategory(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Категория успешно создана", http.StatusCreated)
}
