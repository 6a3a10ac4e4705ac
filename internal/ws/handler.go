package ws

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"snake_arena/internal/logger"
)

// WSHandler содержит зависимости для обработки WebSocket
type WSHandler struct {
	Hub *Hub
}

func NewWSHandler(hub *Hub) *WSHandler {
	return &WSHandler{Hub: hub}
}

func (h *WSHandler) HandleWS() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("HandleWS: ошибка обновления ws", "error", err)
			return
		}

		// создаем клиента и запускаем его обработчики
		client := NewClient(conn, h.Hub)
		go client.Run()
	}
}
