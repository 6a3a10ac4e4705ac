package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"snake_arena/internal/game"
	"snake_arena/internal/logger"
	"snake_arena/internal/metrics"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
)

// Hub — реестр комнат на процесс. Карта комнат — единственная разделяемая
// между комнатами структура; все её мутации атомарны под h.mu. Сами комнаты
// тикают независимо друг от друга.
type Hub struct {
	Rooms    map[string]*Room
	ConnRoom map[string]string // id соединения -> id комнаты
	mu       sync.RWMutex

	gameCfg        game.Config
	broadcastEvery time.Duration
}

func NewHub(cfg game.Config, broadcastEvery time.Duration) *Hub {
	return &Hub{
		Rooms:          make(map[string]*Room),
		ConnRoom:       make(map[string]string),
		gameCfg:        cfg,
		broadcastEvery: broadcastEvery,
	}
}

// CreateRoom создаёт пустую комнату со свежим идентификатором
func (h *Hub) CreateRoom() *Room {
	room := NewRoom(uuid.NewString(), h)

	h.mu.Lock()
	h.Rooms[room.ID] = room
	h.mu.Unlock()

	metrics.RoomsActive.Inc()
	logger.Info("Hub.CreateRoom: комната создана", "room", room.ID)
	return room
}

// JoinRoom сажает клиента в комнату. Клиент, уже сидящий в какой-то
// комнате, повторно не сажается.
func (h *Hub) JoinRoom(roomID string, c *Client) error {
	h.mu.RLock()
	_, already := h.ConnRoom[c.ID]
	room, ok := h.Rooms[roomID]
	h.mu.RUnlock()

	if already {
		logger.Warn("Hub.JoinRoom: клиент уже в комнате", "client", c.ID)
		return nil
	}
	if !ok {
		return ErrRoomNotFound
	}

	if err := room.addOccupant(c); err != nil {
		return err
	}

	h.mu.Lock()
	h.ConnRoom[c.ID] = roomID
	h.mu.Unlock()
	return nil
}

// Direction находит комнату и слот отправителя и применяет валидацию
// направления. Ответа нет: недопустимый ввод молча отбрасывается.
func (h *Hub) Direction(c *Client, d game.Direction) {
	h.mu.RLock()
	roomID, ok := h.ConnRoom[c.ID]
	room := h.Rooms[roomID]
	h.mu.RUnlock()

	if !ok || room == nil {
		return
	}
	room.SetDirection(c, d)
}

// OnDisconnect убирает клиента из его комнаты; опустевшая комната
// удаляется из реестра.
func (h *Hub) OnDisconnect(c *Client) {
	h.mu.Lock()
	roomID, ok := h.ConnRoom[c.ID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.ConnRoom, c.ID)
	room := h.Rooms[roomID]
	h.mu.Unlock()

	if room == nil {
		return
	}
	if room.removeOccupant(c) == 0 {
		h.removeRoom(roomID)
	}
}

func (h *Hub) removeRoom(roomID string) {
	h.mu.Lock()
	_, ok := h.Rooms[roomID]
	if ok {
		delete(h.Rooms, roomID)
	}
	h.mu.Unlock()

	if ok {
		metrics.RoomsActive.Dec()
		logger.Info("Hub.removeRoom: пустая комната удалена", "room", roomID)
	}
}

// HandleMessage разбирает входящий конверт и маршрутизирует намерение.
// Непонятный или битый ввод поглощается без ошибки: упасть из-за него
// не может ни комната, ни реестр.
func (h *Hub) HandleMessage(c *Client, raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		logger.Warn("Hub.HandleMessage: битое сообщение", "client", c.ID, "error", err)
		return
	}

	switch msg.Type {
	case msgCreateRoom:
		room := h.CreateRoom()
		c.queue(Message{Type: msgRoomCreated, Payload: map[string]any{
			"room_id": room.ID,
		}})

	case msgJoinRoom:
		if err := h.JoinRoom(msg.Value, c); err != nil {
			c.queue(Message{Type: msgError, Payload: map[string]any{
				"message": err.Error(),
			}})
		}

	case msgDirection:
		d, ok := game.ParseDirection(msg.Value)
		if !ok {
			logger.Debug("Hub.HandleMessage: неизвестное направление", "client", c.ID, "value", msg.Value)
			return
		}
		h.Direction(c, d)

	default:
		logger.Debug("Hub.HandleMessage: неизвестный тип", "client", c.ID, "type", msg.Type)
	}
}
