package implementations

import (
	"encoding/binary"

	"github.com/annel0/voxel-content/internal/content"
)

// ExpOrbModule — сфера опыта: только сущность, без меток
var ExpOrbModule = content.Module{
	ID:     "exp_orb",
	Entity: content.NewEntityBundle(decodeExpOrb, expOrbSize),
}

var ExpOrbID = content.Define(ExpOrbModule)

// expOrbSize — количество опыта кодируется как uint64 little-endian
const expOrbSize = 8

// ExpOrb — данные сущности сферы опыта
type ExpOrb struct {
	content.EntityRole
	Amount uint64
}

// decodeExpOrb читает количество опыта. Вход короче 8 байт даёт 0,
// байты сверх 8 игнорируются.
func decodeExpOrb(src []byte) *ExpOrb {
	if len(src) < expOrbSize {
		return &ExpOrb{}
	}
	return &ExpOrb{Amount: binary.LittleEndian.Uint64(src)}
}

func (e *ExpOrb) SerializeInto(dst []byte) []byte {
	return binary.LittleEndian.AppendUint64(dst, e.Amount)
}

func (e *ExpOrb) Destroy() {}
