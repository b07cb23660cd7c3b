package implementations

import "github.com/annel0/voxel-content/internal/content"

// StoneModule — камень: блок и предмет без собственных данных
var StoneModule = content.Module{
	ID:    "stone",
	Tags:  []content.Tag{content.TagStone, content.TagCanBeBurn},
	Block: content.NewBlockBundle(decodeStoneBlock, 0),
	Item:  content.NewItemBundle(decodeStoneItem, 0),
}

var StoneID = content.Define(StoneModule)

// StoneBlock — данные блока камня (пустые)
type StoneBlock struct {
	content.BlockRole
}

func decodeStoneBlock(_ []byte) *StoneBlock { return &StoneBlock{} }

// SerializeInto ничего не дописывает: у камня нет данных
func (s *StoneBlock) SerializeInto(dst []byte) []byte { return dst }

func (s *StoneBlock) Destroy() {}

// StoneItem — данные предмета камня (пустые)
type StoneItem struct {
	content.ItemRole
}

func decodeStoneItem(_ []byte) *StoneItem { return &StoneItem{} }

func (s *StoneItem) SerializeInto(dst []byte) []byte { return dst }

func (s *StoneItem) Destroy() {}
