package game

// Snake — тело одного игрока: голова первая, хвост последний.
// Самопересечение тела допустимо как состояние — это условие проигрыша,
// а не нарушение инварианта.
type Snake struct {
	Body      []Cell
	Direction Direction
	Score     int
	Color     string
}

func NewSnake(start Cell, dir Direction, color string) *Snake {
	return &Snake{
		Body:      []Cell{start},
		Direction: dir,
		Color:     color,
	}
}

func (s *Snake) Head() Cell {
	return s.Body[0]
}

// SetDirection применяет запрошенное направление, если оно допустимо.
// Отклоняется без ошибки: поворот по той же нулевой оси (up↔down, left↔right
// и повтор текущего направления) и точный разворот на 180°.
func (s *Snake) SetDirection(d Direction) bool {
	cur := s.Direction
	if d.DX == 0 && cur.DX == 0 {
		return false
	}
	if d.DY == 0 && cur.DY == 0 {
		return false
	}
	if d.DX == -cur.DX && d.DY == -cur.DY {
		return false
	}
	s.Direction = d
	return true
}

// advance сдвигает голову на один блок с заворотом по тору и добавляет её
// в начало тела; хвост остаётся за вызывающим (зависит от поедания еды)
func (s *Snake) advance(width, height, block int) Cell {
	head := s.Body[0]
	next := Cell{
		X: Wrap(head.X+s.Direction.DX*block, width),
		Y: Wrap(head.Y+s.Direction.DY*block, height),
	}
	s.Body = append([]Cell{next}, s.Body...)
	return next
}

func (s *Snake) dropTail() {
	s.Body = s.Body[:len(s.Body)-1]
}

// HitsSelf — голова совпала с любой клеткой остального тела
func (s *Snake) HitsSelf() bool {
	head := s.Body[0]
	for _, c := range s.Body[1:] {
		if cellsEqual(head, c) {
			return true
		}
	}
	return false
}

// Hits — голова совпала с любой клеткой тела соперника, включая его голову
func (s *Snake) Hits(other *Snake) bool {
	head := s.Body[0]
	for _, c := range other.Body {
		if cellsEqual(head, c) {
			return true
		}
	}
	return false
}
