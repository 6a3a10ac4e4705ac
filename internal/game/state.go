package game

import (
	"time"
)

// Config — параметры поля и скорости симуляции
type Config struct {
	Width    int // пиксели, кратно Block
	Height   int
	Block    int
	TickRate int // шагов симуляции в секунду
}

func DefaultConfig() Config {
	return Config{Width: 800, Height: 600, Block: 20, TickRate: 15}
}

var snakeColors = [2]string{"#2ecc71", "#3498db"}

// MatchState — авторитетное состояние одного матча: ровно две змейки,
// одна еда и метка последнего применённого шага. Все мутации сериализуются
// снаружи (мьютекс комнаты), сам MatchState блокировок не держит.
type MatchState struct {
	snakes     [2]*Snake
	food       Food
	spawner    *Spawner
	cfg        Config
	interval   time.Duration
	lastUpdate time.Time

	rounds    int // завершённые столкновением раунды с момента создания
	foodEaten int
}

func NewMatchState(cfg Config) *MatchState {
	m := &MatchState{
		cfg:      cfg,
		spawner:  NewSpawner(cfg.Width, cfg.Height, cfg.Block),
		interval: time.Second / time.Duration(cfg.TickRate),
	}
	m.reset()
	return m
}

// reset возвращает обе змейки на стартовые клетки, обнуляет счёт и
// выбрасывает новую еду. Частичных откатов нет: раунд всегда
// переинициализируется целиком.
func (m *MatchState) reset() {
	midY := (m.cfg.Height / 2 / m.cfg.Block) * m.cfg.Block
	leftX := (m.cfg.Width / 4 / m.cfg.Block) * m.cfg.Block
	rightX := (m.cfg.Width * 3 / 4 / m.cfg.Block) * m.cfg.Block

	m.snakes[0] = NewSnake(Cell{X: leftX, Y: midY}, DirRight, snakeColors[0])
	m.snakes[1] = NewSnake(Cell{X: rightX, Y: midY}, DirLeft, snakeColors[1])
	m.food = m.spawner.Spawn()
}

// Step продвигает симуляцию на один шаг. Возвращает false без каких-либо
// мутаций, если с прошлого шага прошло меньше тикового интервала —
// частота симуляции не зависит от частоты рассылки.
func (m *MatchState) Step(now time.Time) bool {
	if now.Sub(m.lastUpdate) < m.interval {
		return false
	}

	// фиксированный порядок: слот 0, затем слот 1; еда общая, второй
	// проверяющий видит уже заменённую еду
	for _, s := range m.snakes {
		head := s.advance(m.cfg.Width, m.cfg.Height, m.cfg.Block)
		if cellsEqual(head, m.food.Pos) {
			s.Score++
			m.foodEaten++
			m.food = m.spawner.Spawn()
		} else {
			s.dropTail()
		}
	}

	if m.terminated() {
		m.reset()
		m.rounds++
	}

	m.lastUpdate = now
	return true
}

func (m *MatchState) terminated() bool {
	a, b := m.snakes[0], m.snakes[1]
	return a.HitsSelf() || b.HitsSelf() || a.Hits(b) || b.Hits(a)
}

// SetDirection валидирует и применяет направление для змейки слота.
// Недопустимый запрос молча игнорируется — это фильтрация ввода, не ошибка.
func (m *MatchState) SetDirection(slot int, d Direction) bool {
	if slot < 0 || slot > 1 {
		return false
	}
	return m.snakes[slot].SetDirection(d)
}

func (m *MatchState) Rounds() int    { return m.rounds }
func (m *MatchState) FoodEaten() int { return m.foodEaten }

// SnakeSnapshot и Snapshot — явное версионированное отображение состояния
// для провода, а не дамп внутреннего представления
type SnakeSnapshot struct {
	Body      []Cell    `json:"body"`
	Direction Direction `json:"direction"`
	Score     int       `json:"score"`
	Color     string    `json:"color"`
}

type Snapshot struct {
	V          int              `json:"v"`
	Snakes     [2]SnakeSnapshot `json:"snakes"`
	Food       Food             `json:"food"`
	LastUpdate int64            `json:"last_update"`
}

func (m *MatchState) Snapshot() Snapshot {
	var snap Snapshot
	snap.V = 1
	for i, s := range m.snakes {
		body := make([]Cell, len(s.Body))
		copy(body, s.Body)
		snap.Snakes[i] = SnakeSnapshot{
			Body:      body,
			Direction: s.Direction,
			Score:     s.Score,
			Color:     s.Color,
		}
	}
	snap.Food = m.food
	snap.LastUpdate = m.lastUpdate.UnixMilli()
	return snap
}
