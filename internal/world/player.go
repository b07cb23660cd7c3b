package world

import (
	"github.com/annel0/voxel-content/internal/content"
	"github.com/google/uuid"
)

// Player — состояние игрока: имя и инвентарь.
// Инвентарь владеет предметами; они уничтожаются вместе с игроком.
type Player struct {
	ID        uuid.UUID
	Name      string
	inventory []*content.Item
}

func newPlayer(id uuid.UUID, name string) *Player {
	return &Player{ID: id, Name: name}
}

// give забирает владение предметом
func (p *Player) give(it *content.Item) {
	p.inventory = append(p.inventory, it.Move())
}

// Items возвращает идентификаторы предметов инвентаря по порядку
func (p *Player) Items() []content.ID {
	out := make([]content.ID, len(p.inventory))
	for i, it := range p.inventory {
		out[i] = it.ID()
	}
	return out
}

func (p *Player) close() {
	for _, it := range p.inventory {
		it.Close()
	}
	p.inventory = nil
}
