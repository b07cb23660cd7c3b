package world

import (
	"fmt"
	"math/rand"

	"github.com/annel0/voxel-content/internal/content"
	"github.com/annel0/voxel-content/internal/content/implementations"
	"github.com/annel0/voxel-content/internal/vec"
	"github.com/aquilax/go-perlin"
)

// Palette — типы контента, из которых генератор строит ландшафт
type Palette struct {
	Surface     content.ID // верхний слой
	Underground content.ID // всё, что ниже поверхности
	Tree        content.ID // ствол дерева
	Light       content.ID // редкий источник света на поверхности
}

// DefaultPalette использует встроенные типы контента
var DefaultPalette = Palette{
	Surface:     implementations.DirtID,
	Underground: implementations.StoneID,
	Tree:        implementations.OakLogID,
	Light:       implementations.RedstoneTorchID,
}

// Константы генерации
const (
	biomeCell   = 8  // сторона области биома в блоках
	treeHeight  = 3  // высота ствола
	maxLight    = 15 // освещённость открытого неба
	mountainMin = 0.65
)

// Generator генерирует ландшафт мира
type Generator struct {
	Seed          int64   // Сид для генерации шума
	NoiseScale    float64 // Масштаб шума высоты
	ForestDensity float64 // Шанс дерева на клетке поверхности
	LightDensity  float64 // Шанс источника света на клетке поверхности
	Palette       Palette

	noise *perlin.Perlin
}

// GenerateReport — сколько значений поставил генератор
type GenerateReport struct {
	Blocks int
	Trees  int
	Lights int
	Biomes int
}

// NewGenerator создаёт генератор с параметрами по умолчанию
func NewGenerator(seed int64) *Generator {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав

	return &Generator{
		Seed:          seed,
		NoiseScale:    0.05,
		ForestDensity: 0.05,
		LightDensity:  0.01,
		Palette:       DefaultPalette,
		noise:         perlin.NewPerlin(alpha, beta, n, seed),
	}
}

// heightAt возвращает значение шума высоты в диапазоне [0, 1]
func (g *Generator) heightAt(x, z int64) float64 {
	h := (g.noise.Noise2D(float64(x)*g.NoiseScale, float64(z)*g.NoiseScale) + 1) / 2
	switch {
	case h < 0:
		return 0
	case h > 1:
		return 1
	}
	return h
}

// Generate заполняет область area: столбцы камня под слоем поверхности,
// деревья и источники света сверху, биомы клетками biomeCell×biomeCell.
// Результат детерминирован для пары (Seed, area).
func (g *Generator) Generate(m *Map, area vec.Box) (GenerateReport, error) {
	var report GenerateReport
	if area.Empty() {
		return report, nil
	}

	top := area.Origin.Y + area.Size.Y
	for x := area.Origin.X; x < area.Origin.X+area.Size.X; x++ {
		for z := area.Origin.Z; z < area.Origin.Z+area.Size.Z; z++ {
			// Для каждого столбца свой сид: результат не зависит от порядка обхода
			rng := rand.New(rand.NewSource(g.Seed + x*31 + z*17))

			h := g.heightAt(x, z)
			surface := area.Origin.Y + int64(h*float64(area.Size.Y-1))

			for y := area.Origin.Y; y <= surface; y++ {
				id, data, light := g.Palette.Underground, []byte(nil), uint8(0)
				if y == surface {
					id, light = g.Palette.Surface, maxLight
					if h >= mountainMin {
						id = g.Palette.Underground
					} else {
						data = []byte{uint8(h * float64(implementations.MaxMoisture+1))}
					}
				}
				if err := g.place(m, vec.Vec3{X: x, Y: y, Z: z}, id, data, light); err != nil {
					return report, err
				}
				report.Blocks++
			}

			roll := rng.Float64()
			switch {
			case roll < g.ForestDensity && surface+treeHeight < top:
				for y := surface + 1; y <= surface+treeHeight; y++ {
					if err := g.place(m, vec.Vec3{X: x, Y: y, Z: z}, g.Palette.Tree, []byte{byte(implementations.AxisY)}, maxLight); err != nil {
						return report, err
					}
					report.Blocks++
				}
				report.Trees++
			case roll < g.ForestDensity+g.LightDensity && surface+1 < top:
				if err := g.place(m, vec.Vec3{X: x, Y: surface + 1, Z: z}, g.Palette.Light, []byte{1}, maxLight); err != nil {
					return report, err
				}
				report.Blocks++
				report.Lights++
			}
		}
	}

	n, err := g.placeBiomes(m, area)
	report.Biomes = n
	return report, err
}

func (g *Generator) place(m *Map, pos vec.Vec3, id content.ID, data []byte, light uint8) error {
	b, ok := m.Registry().DeserializeBlock(data, id)
	if !ok {
		return fmt.Errorf("%w: palette block %q", ErrUnknownContent, id)
	}
	defer b.Close()
	return m.SetBlock(pos, b, light)
}

// placeBiomes делит область на клетки и выбирает биом по шуму в центре клетки
func (g *Generator) placeBiomes(m *Map, area vec.Box) (int, error) {
	n := 0
	for x := area.Origin.X; x < area.Origin.X+area.Size.X; x += biomeCell {
		for z := area.Origin.Z; z < area.Origin.Z+area.Size.Z; z += biomeCell {
			cell := vec.Box{
				Origin: vec.Vec3{X: x, Y: area.Origin.Y, Z: z},
				Size: vec.Vec3{
					X: min(biomeCell, area.Origin.X+area.Size.X-x),
					Y: area.Size.Y,
					Z: min(biomeCell, area.Origin.Z+area.Size.Z-z),
				},
			}
			id := g.Palette.Surface
			if g.heightAt(x+cell.Size.X/2, z+cell.Size.Z/2) >= mountainMin {
				id = g.Palette.Underground
			}
			if err := m.SetBiome(cell, id); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}
