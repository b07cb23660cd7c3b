package vec

import (
	"fmt"
	"math"
)

// FixedFracBits — число дробных бит в Fixed (шаг 1/16 блока)
const FixedFracBits = 4

const fixedOne = 1 << FixedFracBits

// Fixed — координата сущности с фиксированной точкой
type Fixed int64

// FixedFromInt переводит целую координату блока в Fixed
func FixedFromInt(v int64) Fixed { return Fixed(v << FixedFracBits) }

// FixedFromFloat округляет v до ближайшей 1/16
func FixedFromFloat(v float64) Fixed { return Fixed(math.Round(v * fixedOne)) }

// Float возвращает значение как float64
func (f Fixed) Float() float64 { return float64(f) / fixedOne }

// Floor возвращает целую часть с округлением вниз
func (f Fixed) Floor() int64 { return int64(f) >> FixedFracBits }

func (f Fixed) String() string {
	return fmt.Sprintf("%g", f.Float())
}

// Vec3Fixed — позиция сущности
type Vec3Fixed struct {
	X Fixed
	Y Fixed
	Z Fixed
}

// Block возвращает позицию блока, в котором находится точка
func (v Vec3Fixed) Block() Vec3 {
	return Vec3{X: v.X.Floor(), Y: v.Y.Floor(), Z: v.Z.Floor()}
}

// Center возвращает центр блока p
func Center(p Vec3) Vec3Fixed {
	half := Fixed(fixedOne / 2)
	return Vec3Fixed{
		X: FixedFromInt(p.X) + half,
		Y: FixedFromInt(p.Y) + half,
		Z: FixedFromInt(p.Z) + half,
	}
}

func (v Vec3Fixed) String() string {
	return fmt.Sprintf("(%v, %v, %v)", v.X, v.Y, v.Z)
}
