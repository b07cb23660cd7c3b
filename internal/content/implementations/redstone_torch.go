package implementations

import "github.com/annel0/voxel-content/internal/content"

// RedstoneTorchModule — редстоуновый факел, источник сигнала
var RedstoneTorchModule = content.Module{
	ID:    "redstone_torch",
	Tags:  []content.Tag{content.TagRedStonePowerSource},
	Block: content.NewBlockBundle(decodeRedstoneTorchBlock, 1),
	Item:  content.NewItemBundle(decodeRedstoneTorchItem, 0),
}

var RedstoneTorchID = content.Define(RedstoneTorchModule)

// RedstoneTorchBlock — данные установленного факела
type RedstoneTorchBlock struct {
	content.BlockRole
	Lit bool
}

// decodeRedstoneTorchBlock: любой ненулевой первый байт — горит.
// Новый факел без данных горит.
func decodeRedstoneTorchBlock(src []byte) *RedstoneTorchBlock {
	if len(src) == 0 {
		return &RedstoneTorchBlock{Lit: true}
	}
	return &RedstoneTorchBlock{Lit: src[0] != 0}
}

func (t *RedstoneTorchBlock) SerializeInto(dst []byte) []byte {
	if t.Lit {
		return append(dst, 1)
	}
	return append(dst, 0)
}

func (t *RedstoneTorchBlock) Destroy() {}

type RedstoneTorchItem struct {
	content.ItemRole
}

func decodeRedstoneTorchItem(_ []byte) *RedstoneTorchItem { return &RedstoneTorchItem{} }

func (t *RedstoneTorchItem) SerializeInto(dst []byte) []byte { return dst }

func (t *RedstoneTorchItem) Destroy() {}
