package game

import "math/rand"

type Food struct {
	Pos   Cell   `json:"pos"`
	Color string `json:"color"`
}

var foodColors = []string{"#e74c3c", "#f39c12", "#9b59b6"}

// Spawner генерирует еду в случайной клетке поля
type Spawner struct {
	width  int
	height int
	block  int
}

func NewSpawner(width, height, block int) *Spawner {
	return &Spawner{width: width, height: height, block: block}
}

// Spawn возвращает новую еду. Занятость клетки телом змейки не проверяется:
// еда может появиться под змейкой, и это не перевыбрасывается.
func (sp *Spawner) Spawn() Food {
	return Food{
		Pos: Cell{
			X: rand.Intn(sp.width/sp.block) * sp.block,
			Y: rand.Intn(sp.height/sp.block) * sp.block,
		},
		Color: foodColors[rand.Intn(len(foodColors))],
	}
}
