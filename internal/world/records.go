package world

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/annel0/voxel-content/internal/content"
	"github.com/annel0/voxel-content/internal/vec"
	"github.com/google/uuid"
)

// ErrCorruptRecord — запись в хранилище обрезана или нарушает формат
var ErrCorruptRecord = errors.New("world: corrupt record")

// Префиксы ключей в хранилище
const (
	blockPrefix     = "block/"
	entityPrefix    = "entity/"
	playerPrefix    = "player/"
	biomePrefix     = "biome/"
	structurePrefix = "structure/"
)

func blockKey(p vec.Vec3) string {
	return fmt.Sprintf("%s%d/%d/%d", blockPrefix, p.X, p.Y, p.Z)
}

func entityKey(id uuid.UUID) string { return entityPrefix + id.String() }

func playerKey(id uuid.UUID) string { return playerPrefix + id.String() }

func boxKey(prefix string, b vec.Box) string {
	return fmt.Sprintf("%s%d/%d/%d/%d/%d/%d", prefix,
		b.Origin.X, b.Origin.Y, b.Origin.Z, b.Size.X, b.Size.Y, b.Size.Z)
}

// parseInts разбирает n целых, разделённых "/", после префикса
func parseInts(key, prefix string, n int) ([]int64, error) {
	parts := strings.Split(strings.TrimPrefix(key, prefix), "/")
	if len(parts) != n {
		return nil, fmt.Errorf("%w: key %q", ErrCorruptRecord, key)
	}
	out := make([]int64, n)
	for i, part := range parts {
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrCorruptRecord, key, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseBlockKey(key string) (vec.Vec3, error) {
	v, err := parseInts(key, blockPrefix, 3)
	if err != nil {
		return vec.Vec3{}, err
	}
	return vec.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func parseBoxKey(key, prefix string) (vec.Box, error) {
	v, err := parseInts(key, prefix, 6)
	if err != nil {
		return vec.Box{}, err
	}
	return vec.Box{
		Origin: vec.Vec3{X: v[0], Y: v[1], Z: v[2]},
		Size:   vec.Vec3{X: v[3], Y: v[4], Z: v[5]},
	}, nil
}

func parseUUIDKey(key, prefix string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimPrefix(key, prefix))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: key %q: %v", ErrCorruptRecord, key, err)
	}
	return id, nil
}

// recordReader последовательно читает поля записи
type recordReader struct {
	buf []byte
	err error
}

func (r *recordReader) fail() {
	if r.err == nil {
		r.err = ErrCorruptRecord
	}
}

func (r *recordReader) byte() byte {
	if r.err != nil || len(r.buf) < 1 {
		r.fail()
		return 0
	}
	b := r.buf[0]
	r.buf = r.buf[1:]
	return b
}

func (r *recordReader) int64() int64 {
	if r.err != nil || len(r.buf) < 8 {
		r.fail()
		return 0
	}
	v := int64(binary.LittleEndian.Uint64(r.buf))
	r.buf = r.buf[8:]
	return v
}

func (r *recordReader) bytes() []byte {
	if r.err != nil {
		return nil
	}
	n, size := binary.Uvarint(r.buf)
	if size <= 0 || uint64(len(r.buf)-size) < n {
		r.fail()
		return nil
	}
	out := r.buf[size : size+int(n)]
	r.buf = r.buf[size+int(n):]
	return out
}

func (r *recordReader) id() content.ID { return content.ID(r.bytes()) }

// rest возвращает все непрочитанные байты
func (r *recordReader) rest() []byte {
	if r.err != nil {
		return nil
	}
	out := r.buf
	r.buf = nil
	return out
}

func appendBytes(dst, b []byte) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(b)))
	return append(dst, b...)
}

func appendID(dst []byte, id content.ID) []byte {
	return appendBytes(dst, []byte(id))
}

// Запись блока: light, id, данные блока до конца записи
func encodeBlock(b *content.Block, light uint8) []byte {
	buf := []byte{light}
	buf = appendID(buf, b.ID())
	return append(buf, b.Serialize()...)
}

func decodeBlock(raw []byte) (id content.ID, light uint8, data []byte, err error) {
	r := &recordReader{buf: raw}
	light = r.byte()
	id = r.id()
	data = r.rest()
	return id, light, data, r.err
}

// Запись сущности: x, y, z (Fixed), id, данные до конца записи
func encodeEntity(e *content.Entity, pos vec.Vec3Fixed) []byte {
	buf := make([]byte, 0, 24+len(e.ID())+8)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(pos.X))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(pos.Y))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(pos.Z))
	buf = appendID(buf, e.ID())
	return append(buf, e.Serialize()...)
}

func decodeEntity(raw []byte) (id content.ID, pos vec.Vec3Fixed, data []byte, err error) {
	r := &recordReader{buf: raw}
	pos.X = vec.Fixed(r.int64())
	pos.Y = vec.Fixed(r.int64())
	pos.Z = vec.Fixed(r.int64())
	id = r.id()
	data = r.rest()
	return id, pos, data, r.err
}

// storedItem — предмет инвентаря в сериализованном виде
type storedItem struct {
	id   content.ID
	data []byte
}

// Запись игрока: имя, число предметов, затем (id, данные) каждого
func encodePlayer(p *Player) []byte {
	buf := appendBytes(nil, []byte(p.Name))
	buf = binary.AppendUvarint(buf, uint64(len(p.inventory)))
	for _, it := range p.inventory {
		buf = appendID(buf, it.ID())
		buf = appendBytes(buf, it.Serialize())
	}
	return buf
}

func decodePlayer(raw []byte) (name string, items []storedItem, err error) {
	r := &recordReader{buf: raw}
	name = string(r.bytes())
	if r.err != nil {
		return "", nil, r.err
	}

	n, size := binary.Uvarint(r.buf)
	if size <= 0 {
		return "", nil, ErrCorruptRecord
	}
	r.buf = r.buf[size:]
	for i := uint64(0); i < n; i++ {
		id := r.id()
		data := r.bytes()
		if r.err != nil {
			return "", nil, r.err
		}
		items = append(items, storedItem{id: id, data: data})
	}
	if len(r.buf) != 0 {
		return "", nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptRecord, len(r.buf))
	}
	return name, items, nil
}

// Запись структуры: id, данные блока до конца записи
func encodeStructure(b *content.Block) []byte {
	buf := appendID(nil, b.ID())
	return append(buf, b.Serialize()...)
}

func decodeStructure(raw []byte) (id content.ID, data []byte, err error) {
	r := &recordReader{buf: raw}
	id = r.id()
	data = r.rest()
	return id, data, r.err
}
