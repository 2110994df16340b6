package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"support-desk/internal/dto"
	"support-desk/internal/metrics"
	"support-desk/internal/services"
	"support-desk/pkg/middleware"
	"support-desk/pkg/utils"
)

type TicketController struct {
	ticketService services.TicketServiceInterface
	logger        *zap.Logger
}

func NewTicketController(ticketService services.TicketServiceInterface, logger *zap.Logger) *TicketController {
	return &TicketController{ticketService: ticketService, logger: logger}
}

// GetTickets: ?search=&filter[status]=&filter[company_id]=
func (c *TicketController) GetTickets(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	query := metrics.TicketQuery{
		Search:    filter.Search,
		Status:    filter.Filter["status"],
		CompanyID: filter.Filter["company_id"],
	}

	list, err := c.ticketService.GetTickets(ctx.Request().Context(), query)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessListResponse(ctx, list, filter, "Список заявок успешно получен")
}

func (c *TicketController) GetNewTicketForm(ctx echo.Context) error {
	res, err := c.ticketService.GetNewTicketForm(ctx.Request().Context(), ctx.QueryParam("company"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Форма заявки получена", http.StatusOK)
}

func (c *TicketController) FindTicket(ctx echo.Context) error {
	res, err := c.ticketService.FindTicket(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заявка успешно найдена", http.StatusOK)
}

func (c *TicketController) CreateTicket(ctx echo.Context) error {
	var payload dto.CreateTicketDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx := ctx.Request().Context()
	res, err := c.ticketService.CreateTicket(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	c.logger.Info("Заявка создана",
		zap.String("id", res.ID),
		zap.String("priority", res.Priority),
		zap.String("operator", middleware.OperatorFromContext(reqCtx)),
	)
	return utils.SuccessResponse(ctx, res, "Заявка успешно создана", http.StatusCreated)
}

func (c *TicketController) UpdateTicket(ctx echo.Context) error {
	var payload dto.UpdateTicketDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.ticketService.UpdateTicket(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Заявка успешно обновлена", http.StatusOK)
}

func (c *TicketController) LogTime(ctx echo.Context) error {
	var payload dto.LogTimeDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.ticketService.LogTime(ctx.Request().Context(), ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Время учтено", http.StatusOK)
}

func (c *TicketController) DeleteTicket(ctx echo.Context) error {
	if err := c.ticketService.DeleteTicket(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Заявка успешно удалена", http.StatusOK)
}
