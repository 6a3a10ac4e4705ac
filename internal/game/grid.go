package game

// Cell — позиция на поле в пикселях, всегда кратна размеру блока
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction — единичный вектор движения змейки
type Direction struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

var (
	DirUp    = Direction{DX: 0, DY: -1}
	DirDown  = Direction{DX: 0, DY: 1}
	DirLeft  = Direction{DX: -1, DY: 0}
	DirRight = Direction{DX: 1, DY: 0}
)

// ParseDirection преобразует строковое значение из сообщения клиента
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return DirUp, true
	case "down":
		return DirDown, true
	case "left":
		return DirLeft, true
	case "right":
		return DirRight, true
	}
	return Direction{}, false
}

// Wrap заворачивает координату в [0, size), работает и с отрицательными значениями
func Wrap(v, size int) int {
	return ((v % size) + size) % size
}

func cellsEqual(a, b Cell) bool {
	return a.X == b.X && a.Y == b.Y
}
