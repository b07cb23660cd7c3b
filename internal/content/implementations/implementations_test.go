package implementations

import (
	"math/rand"
	"testing"

	"github.com/annel0/voxel-content/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_ContainsAllTypes(t *testing.T) {
	r := content.Default()

	// порядок регистрации совпадает с порядком инициализации файлов пакета
	assert.Equal(t, []content.ID{DirtID, ExpOrbID, OakLogID, RedstoneTorchID, StoneID}, r.IDs())

	assert.Equal(t, []content.ID{OakLogID, StoneID}, content.FilterByTag(content.TagCanBeBurn))
	assert.Equal(t, []content.ID{RedstoneTorchID}, content.FilterByTag(content.TagRedStonePowerSource))
	assert.Equal(t, []content.ID{OakLogID}, content.FilterByTag(content.TagWood))
	assert.Equal(t, []content.ID{StoneID}, content.FilterByTag(content.TagStone))
	assert.Equal(t, []content.ID{DirtID}, content.FilterByTag(content.TagDirt))
}

// Сценарий: реестр только из камня и сферы опыта
func TestStoneAndExpOrbScenario(t *testing.T) {
	r, err := content.Build(StoneModule, ExpOrbModule)
	require.NoError(t, err)

	assert.Equal(t, []content.ID{"stone"}, r.FilterByTag(content.TagStone))
	assert.Equal(t, []content.ID{"stone"}, r.FilterByTag(content.TagCanBeBurn))

	orb, ok := r.DeserializeEntity([]byte{}, "exp_orb")
	require.True(t, ok)
	p, ok := content.AsEntity[*ExpOrb](orb)
	require.True(t, ok)
	assert.Equal(t, uint64(0), p.Amount)
	assert.Equal(t, make([]byte, 8), orb.Serialize())
	orb.Close()

	five := []byte{0x05, 0, 0, 0, 0, 0, 0, 0}
	orb, ok = r.DeserializeEntity(five, "exp_orb")
	require.True(t, ok)
	p, ok = content.AsEntity[*ExpOrb](orb)
	require.True(t, ok)
	assert.Equal(t, uint64(5), p.Amount)
	assert.Equal(t, five, orb.Serialize())
	orb.Close()

	blk, ok := r.DeserializeBlock([]byte{1, 2, 3}, "exp_orb")
	assert.False(t, ok, "у exp_orb нет роли блока")
	assert.Nil(t, blk)

	_, ok = r.Lookup("unknown")
	assert.False(t, ok)

	stone, ok := r.DeserializeBlock([]byte{0xFF, 0x01}, "stone")
	require.True(t, ok)
	assert.Empty(t, stone.Serialize())
	stone.Close()

	item, ok := r.DeserializeItem(nil, "stone")
	require.True(t, ok)
	assert.Empty(t, item.Serialize())
	item.Close()
}

func TestPayloadDecoding(t *testing.T) {
	r := content.Default()

	tests := []struct {
		name string
		role content.Role
		id   content.ID
		in   []byte
		want []byte
	}{
		{"сфера опыта: короткий вход", content.RoleEntity, ExpOrbID, []byte{1, 2, 3}, make([]byte, 8)},
		{"сфера опыта: лишние байты", content.RoleEntity, ExpOrbID, []byte{1, 0, 0, 0, 0, 0, 0, 0, 9}, []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{"бревно: ось по умолчанию", content.RoleBlock, OakLogID, nil, []byte{0}},
		{"бревно: ось Z", content.RoleBlock, OakLogID, []byte{2}, []byte{2}},
		{"бревно: неизвестная ось", content.RoleBlock, OakLogID, []byte{7}, []byte{0}},
		{"земля: влажность обрезается", content.RoleBlock, DirtID, []byte{200}, []byte{MaxMoisture}},
		{"земля: пустой вход", content.RoleBlock, DirtID, nil, []byte{0}},
		{"факел: новый горит", content.RoleBlock, RedstoneTorchID, nil, []byte{1}},
		{"факел: ненулевой байт", content.RoleBlock, RedstoneTorchID, []byte{0x40}, []byte{1}},
		{"факел: погашен", content.RoleBlock, RedstoneTorchID, []byte{0}, []byte{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := roundTrip(r, tt.role, tt.id, tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, out)
		})
	}
}

// roundTrip десериализует данные в роли role и сериализует обратно
func roundTrip(r *content.Registry, role content.Role, id content.ID, src []byte) ([]byte, bool) {
	switch role {
	case content.RoleBlock:
		v, ok := r.DeserializeBlock(src, id)
		if !ok {
			return nil, false
		}
		defer v.Close()
		return v.Serialize(), true
	case content.RoleEntity:
		v, ok := r.DeserializeEntity(src, id)
		if !ok {
			return nil, false
		}
		defer v.Close()
		return v.Serialize(), true
	case content.RoleItem:
		v, ok := r.DeserializeItem(src, id)
		if !ok {
			return nil, false
		}
		defer v.Close()
		return v.Serialize(), true
	}
	return nil, false
}

// Для любой пары (тип, роль) и любых байтов десериализация тотальна,
// а повторный цикл сериализации даёт неподвижную точку
func TestRoundTripFixedPoint(t *testing.T) {
	r := content.Default()
	rng := rand.New(rand.NewSource(42))

	inputs := [][]byte{nil, {}, {0}, {0xFF}, make([]byte, 7), make([]byte, 64)}
	for i := 0; i < 200; i++ {
		buf := make([]byte, rng.Intn(20))
		rng.Read(buf)
		inputs = append(inputs, buf)
	}

	for _, d := range r.Descriptors() {
		for _, role := range d.Roles() {
			for _, in := range inputs {
				first, ok := roundTrip(r, role, d.ID(), in)
				require.True(t, ok, "%s/%s", d.ID(), role)

				second, ok := roundTrip(r, role, d.ID(), first)
				require.True(t, ok)
				assert.Equal(t, first, second, "%s/%s вход %x", d.ID(), role, in)
			}
		}
	}
}

func TestRolesAbsentAreNotFound(t *testing.T) {
	r := content.Default()

	for _, d := range r.Descriptors() {
		for role := content.RoleBlock; role <= content.RoleItem; role++ {
			_, ok := roundTrip(r, role, d.ID(), nil)
			assert.Equal(t, d.Supports(role), ok, "%s/%s", d.ID(), role)
		}
	}
}

func FuzzDeserializeIsTotal(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x05, 0, 0, 0, 0, 0, 0, 0})
	f.Add([]byte{2})

	r := content.Default()
	f.Fuzz(func(t *testing.T, src []byte) {
		for _, d := range r.Descriptors() {
			for _, role := range d.Roles() {
				first, ok := roundTrip(r, role, d.ID(), src)
				if !ok {
					t.Fatalf("%s/%s: десериализация не удалась", d.ID(), role)
				}
				second, _ := roundTrip(r, role, d.ID(), first)
				if string(first) != string(second) {
					t.Fatalf("%s/%s: %x != %x", d.ID(), role, first, second)
				}
			}
		}
	})
}
