package world

import (
	"testing"

	"github.com/annel0/voxel-content/internal/content"
	"github.com/annel0/voxel-content/internal/content/implementations"
	"github.com/annel0/voxel-content/internal/vec"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	pos := vec.Vec3{X: -1, Y: 64, Z: 12}
	key := blockKey(pos)
	assert.Equal(t, "block/-1/64/12", key)

	got, err := parseBlockKey(key)
	require.NoError(t, err)
	assert.Equal(t, pos, got)

	box := vec.Box{Origin: vec.Vec3{X: 1, Y: 2, Z: 3}, Size: vec.Vec3{X: 4, Y: 5, Z: 6}}
	gotBox, err := parseBoxKey(boxKey(biomePrefix, box), biomePrefix)
	require.NoError(t, err)
	assert.Equal(t, box, gotBox)

	uid := uuid.New()
	gotID, err := parseUUIDKey(entityKey(uid), entityPrefix)
	require.NoError(t, err)
	assert.Equal(t, uid, gotID)

	_, err = parseBlockKey("block/1/2")
	assert.ErrorIs(t, err, ErrCorruptRecord)
	_, err = parseUUIDKey("player/not-a-uuid", playerPrefix)
	assert.ErrorIs(t, err, ErrCorruptRecord)
}

func TestBlockRecord(t *testing.T) {
	b, ok := content.Default().DeserializeBlock([]byte{1}, implementations.OakLogID)
	require.True(t, ok)
	defer b.Close()

	id, light, data, err := decodeBlock(encodeBlock(b, 12))
	require.NoError(t, err)
	assert.Equal(t, implementations.OakLogID, id)
	assert.Equal(t, uint8(12), light)
	assert.Equal(t, []byte{1}, data)
}

func TestEntityRecord(t *testing.T) {
	e, ok := content.Default().DeserializeEntity([]byte{3, 0, 0, 0, 0, 0, 0, 0}, implementations.ExpOrbID)
	require.True(t, ok)
	defer e.Close()

	pos := vec.Vec3Fixed{X: -17, Y: 1024, Z: 5}
	id, gotPos, data, err := decodeEntity(encodeEntity(e, pos))
	require.NoError(t, err)
	assert.Equal(t, implementations.ExpOrbID, id)
	assert.Equal(t, pos, gotPos)
	assert.Equal(t, []byte{3, 0, 0, 0, 0, 0, 0, 0}, data)
}

func TestTruncatedRecords(t *testing.T) {
	tests := []struct {
		name   string
		decode func() error
	}{
		{"пустой блок", func() error { _, _, _, err := decodeBlock(nil); return err }},
		{"блок без id", func() error { _, _, _, err := decodeBlock([]byte{0, 10, 's'}); return err }},
		{"короткая сущность", func() error { _, _, _, err := decodeEntity(make([]byte, 23)); return err }},
		{"структура с длинным id", func() error { _, _, err := decodeStructure([]byte{200}); return err }},
		{"игрок без инвентаря", func() error { _, _, err := decodePlayer(appendBytes(nil, []byte("x"))); return err }},
		{"игрок с мусором", func() error {
			raw := appendBytes(nil, []byte("x"))
			raw = append(raw, 0, 0xFF)
			_, _, err := decodePlayer(raw)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.decode(), ErrCorruptRecord)
		})
	}
}
