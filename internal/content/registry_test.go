package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBlock — простые данные блока для тестов реестра
type testBlock struct {
	BlockRole
	b byte
}

func decodeTestBlock(src []byte) *testBlock {
	if len(src) == 0 {
		return &testBlock{}
	}
	return &testBlock{b: src[0]}
}

func (t *testBlock) SerializeInto(dst []byte) []byte { return append(dst, t.b) }
func (t *testBlock) Destroy()                        {}

type testEntity struct {
	EntityRole
}

func decodeTestEntity([]byte) *testEntity                { return &testEntity{} }
func (t *testEntity) SerializeInto(dst []byte) []byte { return dst }
func (t *testEntity) Destroy()                        {}

func testModules() []Module {
	return []Module{
		{ID: "granite", Tags: []Tag{TagStone}, Block: NewBlockBundle(decodeTestBlock, 1)},
		{ID: "ghost", Entity: NewEntityBundle(decodeTestEntity, 0)},
		{ID: "plank", Tags: []Tag{TagWood, TagCanBeBurn, TagWood}, Block: NewBlockBundle(decodeTestBlock, 1)},
		{ID: "basalt", Tags: []Tag{TagStone, TagCanBeBurn}, Block: NewBlockBundle(decodeTestBlock, 1)},
	}
}

func TestBuild_PreservesRegistrationOrder(t *testing.T) {
	r, err := Build(testModules()...)
	require.NoError(t, err)

	assert.Equal(t, 4, r.Len())
	assert.Equal(t, []ID{"granite", "ghost", "plank", "basalt"}, r.IDs())

	descs := r.Descriptors()
	require.Len(t, descs, 4)
	assert.Equal(t, ID("basalt"), descs[3].ID())
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		modules []Module
		want    error
	}{
		{
			name:    "пустой идентификатор",
			modules: []Module{{Tags: []Tag{TagDirt}}},
			want:    ErrEmptyID,
		},
		{
			name: "повторный идентификатор",
			modules: []Module{
				{ID: "granite"},
				{ID: "granite", Block: NewBlockBundle(decodeTestBlock, 0)},
			},
			want: ErrDuplicateID,
		},
		{
			name:    "набор сущности в слоте блока",
			modules: []Module{{ID: "ghost", Block: NewEntityBundle(decodeTestEntity, 0)}},
			want:    ErrRoleMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Build(tt.modules...)
			assert.Nil(t, r)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuild_Empty(t *testing.T) {
	r, err := Build()
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.FilterByTag(TagStone))
}

func TestLookup(t *testing.T) {
	r, err := Build(testModules()...)
	require.NoError(t, err)

	for _, id := range r.IDs() {
		d, ok := r.Lookup(id)
		require.True(t, ok, "тип %q должен находиться", id)
		assert.Equal(t, id, d.ID())
	}

	for _, id := range []ID{"unknown", "", "Granite", "granite "} {
		d, ok := r.Lookup(id)
		assert.False(t, ok, "тип %q не должен находиться", id)
		assert.Nil(t, d)
	}
}

func TestMustLookup_PanicsOnUnknown(t *testing.T) {
	r, err := Build(testModules()...)
	require.NoError(t, err)

	assert.Equal(t, ID("ghost"), r.MustLookup("ghost").ID())

	defer func() {
		rec := recover()
		require.NotNil(t, rec)
		ie, ok := rec.(*InvariantError)
		require.True(t, ok, "ожидался *InvariantError, получено %T", rec)
		assert.Equal(t, ID("missing"), ie.ID)
		assert.Contains(t, ie.Error(), "missing")
	}()
	r.MustLookup("missing")
}

func TestFilterByTag(t *testing.T) {
	r, err := Build(testModules()...)
	require.NoError(t, err)

	assert.Equal(t, []ID{"granite", "basalt"}, r.FilterByTag(TagStone))
	assert.Equal(t, []ID{"plank", "basalt"}, r.FilterByTag(TagCanBeBurn))
	// повторная метка не дублирует идентификатор
	assert.Equal(t, []ID{"plank"}, r.FilterByTag(TagWood))

	none := r.FilterByTag(TagRedStonePowerSource)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestFilterByTag_MatchesDescriptorTags(t *testing.T) {
	r, err := Build(testModules()...)
	require.NoError(t, err)

	for _, tag := range AllTags() {
		var want []ID
		for _, d := range r.Descriptors() {
			if d.HasTag(tag) {
				want = append(want, d.ID())
			}
		}
		got := r.FilterByTag(tag)
		if len(want) == 0 {
			assert.Empty(t, got, "метка %s", tag)
			continue
		}
		assert.Equal(t, want, got, "метка %s", tag)
	}
}

func TestDescriptor_Accessors(t *testing.T) {
	r, err := Build(testModules()...)
	require.NoError(t, err)

	d := r.MustLookup("plank")
	assert.True(t, d.Supports(RoleBlock))
	assert.False(t, d.Supports(RoleEntity))
	assert.False(t, d.Supports(Role(42)))
	assert.Equal(t, []Role{RoleBlock}, d.Roles())

	b, ok := d.Bundle(RoleBlock)
	require.True(t, ok)
	assert.Equal(t, RoleBlock, b.Role())
	assert.Equal(t, 1, b.SizeHint())
	assert.Equal(t, "*content.testBlock", b.PayloadType().String())

	tags := d.Tags()
	tags[0] = TagDirt
	assert.Equal(t, TagWood, d.Tags()[0], "Tags должен возвращать копию")

	assert.Equal(t, "plank tags=[wood,can_be_burn,wood] roles=[block]", d.String())
}

func TestTagAndRoleNames(t *testing.T) {
	for _, tag := range AllTags() {
		parsed, ok := ParseTag(tag.String())
		assert.True(t, ok)
		assert.Equal(t, tag, parsed)
	}
	_, ok := ParseTag("lava")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Tag(200).String())

	for _, name := range []string{"block", "entity", "item"} {
		r, ok := ParseRole(name)
		assert.True(t, ok)
		assert.Equal(t, name, r.String())
	}
	_, ok = ParseRole("structure")
	assert.False(t, ok)
}

func TestNewBundle_NilDecodePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewBlockBundle[*testBlock](nil, 0)
	})
}

func TestDefine_FrozenAfterDefault(t *testing.T) {
	r := Default()
	require.NotNil(t, r)
	assert.Same(t, r, Default(), "реестр строится один раз")

	assert.Panics(t, func() {
		Define(Module{ID: "late"})
	})
	_, ok := Lookup("late")
	assert.False(t, ok)
}
