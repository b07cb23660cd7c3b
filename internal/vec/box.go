package vec

import "fmt"

// Box — прямоугольная область мира: угол Origin и размеры по осям.
// Используется как координата биомов и структур.
type Box struct {
	Origin Vec3
	Size   Vec3
}

// Contains проверяет, лежит ли блок p внутри области
func (b Box) Contains(p Vec3) bool {
	return p.X >= b.Origin.X && p.X < b.Origin.X+b.Size.X &&
		p.Y >= b.Origin.Y && p.Y < b.Origin.Y+b.Size.Y &&
		p.Z >= b.Origin.Z && p.Z < b.Origin.Z+b.Size.Z
}

// Empty сообщает, что область не содержит ни одного блока
func (b Box) Empty() bool {
	return b.Size.X <= 0 || b.Size.Y <= 0 || b.Size.Z <= 0
}

// Volume возвращает число блоков в области
func (b Box) Volume() int64 {
	if b.Empty() {
		return 0
	}
	return b.Size.X * b.Size.Y * b.Size.Z
}

func (b Box) String() string {
	return fmt.Sprintf("%v+%dx%dx%d", b.Origin, b.Size.X, b.Size.Y, b.Size.Z)
}
