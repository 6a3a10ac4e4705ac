package ws

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"snake_arena/internal/game"
)

// newTestHub — реестр с дефолтным полем и медленной рассылкой,
// чтобы тиковые циклы не заваливали буферы в тестах
func newTestHub(t *testing.T) *Hub {
	t.Helper()
	return NewHub(game.DefaultConfig(), 33*time.Millisecond)
}

// newTestClient — клиент без реального websocket-соединения:
// комната пишет только в буферизованный Send
func newTestClient(t *testing.T) *Client {
	t.Helper()
	return &Client{
		ID:   uuid.NewString(),
		Send: make(chan []byte, 64),
		Done: make(chan struct{}),
	}
}

// readUntil вычитывает очередь клиента, пока не встретит сообщение типа want
func readUntil(t *testing.T, c *Client, want string) Message {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case data := <-c.Send:
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("битое исходящее сообщение: %v", err)
			}
			if msg.Type == want {
				return msg
			}
		case <-deadline:
			t.Fatalf("не дождались сообщения %q", want)
		}
	}
}

func TestJoinRoom_NotFound(t *testing.T) {
	h := newTestHub(t)
	c := newTestClient(t)
	c.Hub = h

	err := h.JoinRoom("no-such-room", c)
	if !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("ожидалось ErrRoomNotFound, получено %v", err)
	}
	if len(h.ConnRoom) != 0 {
		t.Fatalf("неудачный join не должен менять реестр")
	}
}

func TestJoinRoom_Full(t *testing.T) {
	h := newTestHub(t)
	room := h.CreateRoom()

	c1, c2, c3 := newTestClient(t), newTestClient(t), newTestClient(t)
	if err := h.JoinRoom(room.ID, c1); err != nil {
		t.Fatalf("первый join: %v", err)
	}
	if err := h.JoinRoom(room.ID, c2); err != nil {
		t.Fatalf("второй join: %v", err)
	}

	err := h.JoinRoom(room.ID, c3)
	if !errors.Is(err, ErrRoomFull) {
		t.Fatalf("ожидалось ErrRoomFull, получено %v", err)
	}

	h.OnDisconnect(c1)
	h.OnDisconnect(c2)
}

func TestLeave_RemovesEmptyRoom(t *testing.T) {
	h := newTestHub(t)
	room := h.CreateRoom()

	c := newTestClient(t)
	if err := h.JoinRoom(room.ID, c); err != nil {
		t.Fatalf("join: %v", err)
	}

	h.OnDisconnect(c)

	h.mu.RLock()
	rooms := len(h.Rooms)
	conns := len(h.ConnRoom)
	h.mu.RUnlock()
	if rooms != 0 || conns != 0 {
		t.Fatalf("опустевшая комната должна удаляться: rooms=%d conns=%d", rooms, conns)
	}
}

func TestMidMatchDisconnect_KeepsState(t *testing.T) {
	h := newTestHub(t)
	room := h.CreateRoom()

	c1, c2 := newTestClient(t), newTestClient(t)
	if err := h.JoinRoom(room.ID, c1); err != nil {
		t.Fatalf("join c1: %v", err)
	}
	if err := h.JoinRoom(room.ID, c2); err != nil {
		t.Fatalf("join c2: %v", err)
	}
	before := room.match

	h.OnDisconnect(c1)

	if room.State() != StateAwaitingSecond {
		t.Fatalf("комната с выжившим должна ждать второго: %s", room.State())
	}
	// состояние матча при дисконнекте посреди игры не сбрасывается
	if room.match != before {
		t.Fatalf("MatchState не должен пересоздаваться при дисконнекте")
	}

	// освободившийся слот занимает новый игрок, цикл запускается снова
	c3 := newTestClient(t)
	if err := h.JoinRoom(room.ID, c3); err != nil {
		t.Fatalf("join c3: %v", err)
	}
	if room.State() != StateRunning {
		t.Fatalf("после второго join комната должна работать: %s", room.State())
	}

	room.mu.Lock()
	slot0 := room.occupants[0]
	room.mu.Unlock()
	if slot0 != c3 {
		t.Fatalf("новый игрок должен занять освободившийся слот 0")
	}

	h.OnDisconnect(c2)
	h.OnDisconnect(c3)
}

func TestHandleMessage_CreateAndJoinFlow(t *testing.T) {
	h := newTestHub(t)
	c1, c2 := newTestClient(t), newTestClient(t)
	c1.Hub, c2.Hub = h, h

	h.HandleMessage(c1, []byte(`{"type":"create_room"}`))
	created := readUntil(t, c1, msgRoomCreated)

	payload, _ := created.Payload.(map[string]any)
	roomID, _ := payload["room_id"].(string)
	if roomID == "" {
		t.Fatalf("room_created без room_id: %v", created.Payload)
	}

	h.HandleMessage(c1, []byte(`{"type":"join_room","value":"`+roomID+`"}`))
	readUntil(t, c1, msgRoomJoined)

	h.HandleMessage(c2, []byte(`{"type":"join_room","value":"`+roomID+`"}`))
	readUntil(t, c2, msgRoomJoined)

	// после старта обоим приходят полные снапшоты состояния
	state := readUntil(t, c1, msgGameState)
	if state.Payload == nil {
		t.Fatalf("game_state без payload")
	}

	h.OnDisconnect(c1)
	h.OnDisconnect(c2)
}

func TestHandleMessage_JoinErrorsReported(t *testing.T) {
	h := newTestHub(t)
	c := newTestClient(t)
	c.Hub = h

	h.HandleMessage(c, []byte(`{"type":"join_room","value":"missing"}`))
	errMsg := readUntil(t, c, msgError)

	payload, _ := errMsg.Payload.(map[string]any)
	if payload["message"] != ErrRoomNotFound.Error() {
		t.Fatalf("ожидалось сообщение об отсутствии комнаты: %v", errMsg.Payload)
	}
}

func TestHandleMessage_MalformedAbsorbed(t *testing.T) {
	h := newTestHub(t)
	c := newTestClient(t)
	c.Hub = h

	// битый json, неизвестный тип и направление вне комнаты — всё молча
	h.HandleMessage(c, []byte(`{not json`))
	h.HandleMessage(c, []byte(`{"type":"teleport"}`))
	h.HandleMessage(c, []byte(`{"type":"direction","value":"up"}`))

	select {
	case data := <-c.Send:
		t.Fatalf("мусорный ввод не должен порождать ответов: %s", data)
	default:
	}
}
