package world

import (
	"testing"

	"github.com/annel0/voxel-content/internal/content"
	"github.com/annel0/voxel-content/internal/content/implementations"
	"github.com/annel0/voxel-content/internal/storage"
	"github.com/annel0/voxel-content/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testArea = vec.Box{Size: vec.Vec3{X: 20, Y: 16, Z: 20}}

func TestGenerator_IsDeterministic(t *testing.T) {
	first := openMap(t, storage.NewMemoryStore(), Options{})
	second := openMap(t, storage.NewMemoryStore(), Options{})

	r1, err := NewGenerator(42).Generate(first, testArea)
	require.NoError(t, err)
	r2, err := NewGenerator(42).Generate(second, testArea)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, first.BlockCounts(), second.BlockCounts())
	assert.Equal(t, r1.Blocks, first.Stats().Blocks)

	// по одной клетке биома на каждые 8×8 столбцов, с обрезанным краем
	assert.Equal(t, 9, r1.Biomes)
}

func TestGenerator_FillsEveryColumn(t *testing.T) {
	m := openMap(t, storage.NewMemoryStore(), Options{})
	_, err := NewGenerator(7).Generate(m, testArea)
	require.NoError(t, err)

	for x := int64(0); x < testArea.Size.X; x++ {
		for z := int64(0); z < testArea.Size.Z; z++ {
			id, _, ok := m.BlockAt(vec.Vec3{X: x, Y: 0, Z: z})
			require.True(t, ok, "столбец %d,%d пуст", x, z)
			assert.Contains(t, []content.ID{implementations.StoneID, implementations.DirtID}, id)
		}
	}

	counts := m.BlockCounts()
	for id := range counts {
		assert.Contains(t, []content.ID{
			implementations.StoneID, implementations.DirtID,
			implementations.OakLogID, implementations.RedstoneTorchID,
		}, id)
	}
}

func TestGenerator_UnknownPalette(t *testing.T) {
	m := openMap(t, storage.NewMemoryStore(), Options{})
	g := NewGenerator(1)
	g.Palette.Underground = implementations.ExpOrbID

	_, err := g.Generate(m, testArea)
	assert.ErrorIs(t, err, ErrUnknownContent)
}

func TestGenerator_EmptyArea(t *testing.T) {
	m := openMap(t, storage.NewMemoryStore(), Options{})
	report, err := NewGenerator(1).Generate(m, vec.Box{})
	require.NoError(t, err)
	assert.Zero(t, report)
}
