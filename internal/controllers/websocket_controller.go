package controllers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	appwebsocket "support-desk/pkg/websocket"
)

type WebSocketController struct {
	hub      *appwebsocket.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketController: allowedOrigins пустой - принимаем любой Origin.
func NewWebSocketController(hub *appwebsocket.Hub, allowedOrigins []string, logger *zap.Logger) *WebSocketController {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return &WebSocketController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(allowed) == 0 || origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		logger: logger,
	}
}

// ServeWs подключает клиента к рассылке изменений. Поток только на чтение.
func (c *WebSocketController) ServeWs(ctx echo.Context) error {
	conn, err := c.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Error("WebSocket: не удалось улучшить соединение", zap.Error(err))
		return nil
	}

	client := appwebsocket.NewClient(c.hub, conn)
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	c.logger.Info("WebSocket: клиент подключен", zap.String("remote", ctx.RealIP()))
	return nil
}
