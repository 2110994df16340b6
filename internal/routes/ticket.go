package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"support-desk/internal/controllers"
	"support-desk/internal/services"
	"support-desk/pkg/middleware"
)

func runTicketRouter(
	api *echo.Group,
	ticketService services.TicketServiceInterface,
	commentService services.CommentServiceInterface,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
) {
	ticketCtrl := controllers.NewTicketController(ticketService, logger)
	commentCtrl := controllers.NewCommentController(commentService, logger)

	api.GET("/tickets", ticketCtrl.GetTickets)
	api.GET("/tickets/new-form", ticketCtrl.GetNewTicketForm)
	api.GET("/tickets/:id", ticketCtrl.FindTicket)
	api.POST("/tickets", ticketCtrl.CreateTicket, authMW.Auth)
	api.PUT("/tickets/:id", ticketCtrl.UpdateTicket, authMW.Auth)
	api.POST("/tickets/:id/time", ticketCtrl.LogTime, authMW.Auth)
	api.DELETE("/tickets/:id", ticketCtrl.DeleteTicket, authMW.Auth)

	api.GET("/tickets/:id/comments", commentCtrl.GetComments)
	api.POST("/tickets/:id/comments", commentCtrl.AddComment, authMW.Auth)
}
