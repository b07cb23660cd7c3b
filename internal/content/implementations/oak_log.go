package implementations

import "github.com/annel0/voxel-content/internal/content"

// OakLogModule — дубовое бревно
var OakLogModule = content.Module{
	ID:    "oak_log",
	Tags:  []content.Tag{content.TagWood, content.TagCanBeBurn},
	Block: content.NewBlockBundle(decodeOakLogBlock, 1),
	Item:  content.NewItemBundle(decodeOakLogItem, 0),
}

var OakLogID = content.Define(OakLogModule)

// Axis задаёт ориентацию бревна
type Axis uint8

const (
	AxisY Axis = iota // вертикально, по умолчанию
	AxisX
	AxisZ
)

// OakLogBlock — данные блока бревна
type OakLogBlock struct {
	content.BlockRole
	Axis Axis
}

// decodeOakLogBlock читает ось из первого байта; неизвестные значения
// и пустой вход дают вертикальное бревно
func decodeOakLogBlock(src []byte) *OakLogBlock {
	if len(src) == 0 || Axis(src[0]) > AxisZ {
		return &OakLogBlock{Axis: AxisY}
	}
	return &OakLogBlock{Axis: Axis(src[0])}
}

func (b *OakLogBlock) SerializeInto(dst []byte) []byte { return append(dst, byte(b.Axis)) }

func (b *OakLogBlock) Destroy() {}

// OakLogItem — предмет бревна
type OakLogItem struct {
	content.ItemRole
}

func decodeOakLogItem(_ []byte) *OakLogItem { return &OakLogItem{} }

func (i *OakLogItem) SerializeInto(dst []byte) []byte { return dst }

func (i *OakLogItem) Destroy() {}
