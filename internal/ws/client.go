package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"snake_arena/internal/logger"
	"snake_arena/internal/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	sendBuffer = 64
)

// Client — одно websocket-соединение. ID — непрозрачный идентификатор
// соединения, никакой другой идентичности у игрока нет.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	Hub  *Hub
	Done chan struct{}
}

func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
		Hub:  hub,
		Done: make(chan struct{}),
	}
}

func (c *Client) Run() {
	// writer первым, чтобы ответы на первые сообщения не потерялись
	go c.writePump()
	c.readPump()
}

// queue сериализует и ставит сообщение в очередь записи без блокировки.
// Медленный клиент не должен тормозить тиковый цикл: при переполненном
// буфере сообщение отбрасывается.
func (c *Client) queue(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Client.queue: ошибка сериализации", "client", c.ID, "error", err)
		return
	}
	select {
	case c.Send <- data:
	default:
		metrics.BroadcastDropped.Inc()
		logger.Warn("Client.queue: буфер переполнен, сообщение отброшено", "client", c.ID, "type", msg.Type)
	}
}

// read
func (c *Client) readPump() {
	defer func() {
		c.Hub.OnDisconnect(c)
		_ = c.Conn.Close()
		close(c.Done)
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			logger.Debug("Client.readPump: чтение завершено", "client", c.ID, "error", err)
			break
		}
		c.Hub.HandleMessage(c, msg)
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("Client.writePump: ошибка записи", "client", c.ID, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
