package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"support-desk/internal/dto"
	"support-desk/internal/services"
	apperrors "support-desk/pkg/errors"
	"support-desk/pkg/utils"
)

type CommentController struct {
	commentService services.CommentServiceInterface
	logger         *zap.Logger
}

func NewCommentController(commentService services.CommentServiceInterface, logger *zap.Logger) *CommentController {
	return &CommentController{commentService: commentService, logger: logger}
}

// GetComments: внутренние комментарии только с ?include_internal=true.
func (c *CommentController) GetComments(ctx echo.Context) error {
	includeInternal := false
	if raw := ctx.QueryParam("include_internal"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return utils.ErrorResponse(ctx,
				apperrors.NewHttpError(http.StatusBadRequest, "Неверное значение include_internal", err,
					map[string]interface{}{"include_internal": raw}),
				c.logger,
			)
		}
		includeInternal = v
	}

	list, err := c.commentService.GetComments(ctx.Request().Context(), ctx.Param("id"), includeInternal)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Комментарии получены", http.StatusOK)
}

func (c *CommentController) AddComment(ctx echo.Context) error {
	var payload dto.CreateCommentDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.commentService.AddComment(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Комментарий добавлен", http.StatusCreated)
}
