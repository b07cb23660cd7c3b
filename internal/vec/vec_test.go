package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: -1, Y: 0, Z: 5}

	assert.Equal(t, Vec3{X: 0, Y: 2, Z: 8}, a.Add(b))
	assert.True(t, a.Equals(Vec3{X: 1, Y: 2, Z: 3}))
	assert.Equal(t, int64(12), a.DistanceSq(b))
	assert.Equal(t, "(1, 2, 3)", a.String())
}

func TestBox(t *testing.T) {
	box := Box{Origin: Vec3{X: 0, Y: 0, Z: 0}, Size: Vec3{X: 2, Y: 3, Z: 4}}

	assert.True(t, box.Contains(Vec3{}))
	assert.True(t, box.Contains(Vec3{X: 1, Y: 2, Z: 3}))
	assert.False(t, box.Contains(Vec3{X: 2, Y: 0, Z: 0}))
	assert.False(t, box.Contains(Vec3{X: -1}))
	assert.Equal(t, int64(24), box.Volume())

	assert.True(t, Box{Size: Vec3{X: 1, Y: 0, Z: 1}}.Empty())
	assert.Zero(t, Box{Size: Vec3{X: -1, Y: 2, Z: 2}}.Volume())
}

func TestFixed(t *testing.T) {
	tests := []struct {
		in    float64
		want  Fixed
		floor int64
	}{
		{0, 0, 0},
		{1, 16, 1},
		{1.5, 24, 1},
		{0.0625, 1, 0},
		{-0.5, -8, -1},
		{2.03, 32, 2}, // округление до 1/16
	}

	for _, tt := range tests {
		f := FixedFromFloat(tt.in)
		assert.Equal(t, tt.want, f, "%v", tt.in)
		assert.Equal(t, tt.floor, f.Floor(), "%v", tt.in)
	}

	assert.Equal(t, Fixed(48), FixedFromInt(3))
	assert.Equal(t, 1.5, Fixed(24).Float())
	assert.Equal(t, "1.5", Fixed(24).String())
}

func TestVec3Fixed_Block(t *testing.T) {
	p := Vec3{X: -3, Y: 7, Z: 0}
	c := Center(p)

	assert.Equal(t, p, c.Block())
	assert.Equal(t, "(-2.5, 7.5, 0.5)", c.String())
}
