package ws

import (
	"sync"
	"time"

	"snake_arena/internal/game"
	"snake_arena/internal/logger"
	"snake_arena/internal/metrics"
)

const (
	StateEmpty          = "empty"
	StateAwaitingSecond = "awaiting_second"
	StateRunning        = "running"
	StateStopped        = "stopped"
)

// Room — одна комната: до двух занятых слотов, состояние матча и тиковый
// цикл. Мьютекс комнаты — единственный писатель её MatchState: тик,
// join/leave и смена направления взаимно исключены.
type Room struct {
	ID string

	mu        sync.Mutex
	occupants [2]*Client
	state     string
	match     *game.MatchState
	stop      chan struct{} // не nil только пока цикл запущен

	hub            *Hub
	broadcastEvery time.Duration
}

func NewRoom(id string, hub *Hub) *Room {
	return &Room{
		ID:             id,
		state:          StateEmpty,
		match:          game.NewMatchState(hub.gameCfg),
		hub:            hub,
		broadcastEvery: hub.broadcastEvery,
	}
}

func (r *Room) State() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// addOccupant занимает первый свободный слот. Переживший дисконнект игрок
// сохраняет свой слот, поэтому новый второй игрок получает освободившуюся
// змейку вместе с её текущим телом и счётом.
func (r *Room) addOccupant(c *Client) error {
	r.mu.Lock()

	slot := -1
	for i, occ := range r.occupants {
		if occ == nil {
			slot = i
			break
		}
	}
	if slot == -1 {
		r.mu.Unlock()
		return ErrRoomFull
	}

	r.occupants[slot] = c
	count := r.occupantCountLocked()

	started := false
	if count == 2 {
		r.state = StateRunning
		r.startLoopLocked()
		started = true
	} else {
		r.state = StateAwaitingSecond
	}
	occs := r.occupants
	r.mu.Unlock()

	logger.Info("Room.addOccupant: игрок занял слот",
		"room", r.ID, "client", c.ID, "slot", slot, "players", count)

	if started {
		// второй игрок подключился — оба узнают о старте
		for _, occ := range occs {
			if occ != nil {
				occ.queue(Message{Type: msgRoomJoined, Payload: map[string]any{
					"room_id": r.ID,
					"players": 2,
				}})
			}
		}
	} else {
		c.queue(Message{Type: msgRoomJoined, Payload: map[string]any{
			"room_id": r.ID,
			"players": count,
		}})
	}
	return nil
}

// removeOccupant освобождает слот и синхронно останавливает тиковый цикл.
// MatchState при дисконнекте посреди матча не сбрасывается: змейка и счёт
// выжившего сохраняются до следующего столкновения или ухода.
// Возвращает число оставшихся игроков.
func (r *Room) removeOccupant(c *Client) int {
	r.mu.Lock()
	for i, occ := range r.occupants {
		if occ == c {
			r.occupants[i] = nil
		}
	}
	count := r.occupantCountLocked()

	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
	if count == 0 {
		r.state = StateStopped
	} else {
		r.state = StateAwaitingSecond
	}
	r.mu.Unlock()

	logger.Info("Room.removeOccupant: игрок вышел", "room", r.ID, "client", c.ID, "players", count)
	return count
}

// SetDirection направляет ввод игрока в змейку его слота
func (r *Room) SetDirection(c *Client, d game.Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, occ := range r.occupants {
		if occ == c {
			r.match.SetDirection(i, d)
			return
		}
	}
}

func (r *Room) occupantCountLocked() int {
	n := 0
	for _, occ := range r.occupants {
		if occ != nil {
			n++
		}
	}
	return n
}

// вызывающий держит r.mu
func (r *Room) startLoopLocked() {
	stop := make(chan struct{})
	r.stop = stop
	go r.run(stop)
	logger.Info("Room.startLoopLocked: тиковый цикл запущен", "room", r.ID)
}

// run — тиковый цикл комнаты. Частота рассылки не ниже частоты симуляции:
// Step сам решает, продвигать ли состояние, снапшот уходит в любом случае.
func (r *Room) run(stop chan struct{}) {
	ticker := time.NewTicker(r.broadcastEvery)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Room) tick() {
	r.mu.Lock()
	// после перехода в Stopped/AwaitingSecond начатый тик не должен
	// ни мутировать состояние, ни рассылать
	if r.state != StateRunning {
		r.mu.Unlock()
		return
	}

	prevRounds := r.match.Rounds()
	prevFood := r.match.FoodEaten()

	if r.match.Step(time.Now()) {
		metrics.Ticks.Inc()
		if r.match.Rounds() > prevRounds {
			metrics.Rounds.Inc()
			logger.Info("Room.tick: столкновение, раунд сброшен", "room", r.ID)
		}
		if r.match.FoodEaten() > prevFood {
			metrics.FoodEaten.Inc()
		}
	}

	snap := r.match.Snapshot()
	occs := r.occupants
	r.mu.Unlock()

	// рассылка вне блокировки и без ожидания медленных клиентов
	msg := Message{Type: msgGameState, Payload: snap}
	for _, occ := range occs {
		if occ != nil {
			occ.queue(msg)
		}
	}
}
