package implementations

import "github.com/annel0/voxel-content/internal/content"

// DirtModule — земля
var DirtModule = content.Module{
	ID:    "dirt",
	Tags:  []content.Tag{content.TagDirt},
	Block: content.NewBlockBundle(decodeDirtBlock, 1),
	Item:  content.NewItemBundle(decodeDirtItem, 0),
}

var DirtID = content.Define(DirtModule)

// MaxMoisture — максимальная влажность земли
const MaxMoisture = 7

// DirtBlock — данные блока земли
type DirtBlock struct {
	content.BlockRole
	Moisture uint8 // 0..MaxMoisture
}

// decodeDirtBlock читает влажность, значения выше MaxMoisture обрезаются
func decodeDirtBlock(src []byte) *DirtBlock {
	if len(src) == 0 {
		return &DirtBlock{}
	}
	return &DirtBlock{Moisture: min(src[0], MaxMoisture)}
}

func (d *DirtBlock) SerializeInto(dst []byte) []byte { return append(dst, d.Moisture) }

func (d *DirtBlock) Destroy() {}

// DirtItem — предмет земли
type DirtItem struct {
	content.ItemRole
}

func decodeDirtItem(_ []byte) *DirtItem { return &DirtItem{} }

func (d *DirtItem) SerializeInto(dst []byte) []byte { return dst }

func (d *DirtItem) Destroy() {}
