package mapgen

import (
	"math"
	"time"

	"city-viewer/internal/mat"
	"city-viewer/internal/sceneio"
)

// CityOptions controls procedural city generation.
// The city is a Blocks×Blocks grid of square blocks separated by streets, lying
// in the XY plane with Z up and its south-west corner at the origin. Each block
// becomes water, park or a building depending on fractal noise sampled at the block.
// Seed == 0 uses a time-based seed.
type CityOptions struct {
	Blocks    int
	BlockSize float32
	Street    float32

	MinHeight float32
	MaxHeight float32
	// WaterLevel and ParkLevel are noise thresholds in [0,1]: blocks below
	// WaterLevel are water, below ParkLevel parks, the rest buildings.
	WaterLevel float32
	ParkLevel  float32

	Seed       int64
	Octaves    int
	Frequency  float32
	Lacunarity float32
	Gain       float32
}

// DefaultCityOptions returns a 24×24 block city with buildings up to 300 units tall.
func DefaultCityOptions() CityOptions {
	return CityOptions{
		Blocks:     24,
		BlockSize:  80,
		Street:     20,
		MinHeight:  10,
		MaxHeight:  300,
		WaterLevel: 0.25,
		ParkLevel:  0.35,
		Octaves:    4,
		Frequency:  0.15,
		Lacunarity: 2.0,
		Gain:       0.5,
	}
}

// Layer colors for generated scenes.
var (
	BuildingColor = []float32{0.85, 0.85, 0.82, 1}
	WaterColor    = []float32{0.35, 0.55, 0.85, 1}
	ParkColor     = []float32{0.45, 0.7, 0.4, 1}
	SurfaceColor  = []float32{0.8, 0.8, 0.78, 1}
)

// Heights of the flat layers above the surface, to avoid z-fighting.
const (
	waterZ = 0.1
	parkZ  = 0.2
)

// GenerateCity builds a scene with all four categories. Building heights
// follow the same noise that picks the land use, so tall buildings cluster
// away from water.
func GenerateCity(opts CityOptions) *sceneio.Description {
	def := DefaultCityOptions()
	if opts.Blocks <= 0 {
		opts.Blocks = def.Blocks
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = def.BlockSize
	}
	if opts.Street < 0 {
		opts.Street = 0
	}
	if opts.MaxHeight <= 0 {
		opts.MaxHeight = def.MaxHeight
	}
	if opts.MinHeight <= 0 || opts.MinHeight > opts.MaxHeight {
		opts.MinHeight = min(def.MinHeight, opts.MaxHeight)
	}
	if opts.Octaves <= 0 {
		opts.Octaves = 1
	}
	if opts.Frequency <= 0 {
		opts.Frequency = def.Frequency
	}
	if opts.Lacunarity <= 0 {
		opts.Lacunarity = 2.0
	}
	if opts.Gain <= 0 {
		opts.Gain = 0.5
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var buildings, water, parks, surface meshBuilder
	buildings.normals = true

	pitch := opts.BlockSize + opts.Street
	extent := float32(opts.Blocks) * pitch
	surface.quad(flatQuad(0, 0, extent, extent, 0), mat.Vec3{0, 0, 1})

	for by := 0; by < opts.Blocks; by++ {
		for bx := 0; bx < opts.Blocks; bx++ {
			h := fractalValueNoise2D(float32(bx)*opts.Frequency, float32(by)*opts.Frequency, seed, opts.Octaves, opts.Lacunarity, opts.Gain)
			if !isFinite(h) {
				h = 1
			}
			x0 := float32(bx)*pitch + opts.Street/2
			y0 := float32(by)*pitch + opts.Street/2
			x1, y1 := x0+opts.BlockSize, y0+opts.BlockSize
			switch {
			case h < opts.WaterLevel:
				water.quad(flatQuad(x0, y0, x1, y1, waterZ), mat.Vec3{0, 0, 1})
			case h < opts.ParkLevel:
				parks.quad(flatQuad(x0, y0, x1, y1, parkZ), mat.Vec3{0, 0, 1})
			default:
				t := (h - opts.ParkLevel) / max(1-opts.ParkLevel, 1e-6)
				height := opts.MinHeight + t*(opts.MaxHeight-opts.MinHeight)
				buildings.box(x0, y0, x1, y1, height)
			}
		}
	}

	d := sceneio.NewDescription()
	d.Entries["buildings"] = buildings.entry(BuildingColor)
	d.Entries["water"] = water.entry(WaterColor)
	d.Entries["parks"] = parks.entry(ParkColor)
	d.Entries["surface"] = surface.entry(SurfaceColor)
	return d
}

// meshBuilder accumulates quads as indexed triangles.
type meshBuilder struct {
	normals bool
	pos     []float32
	nrm     []float32
	idx     []uint32
}

// quad appends four corners given counter-clockwise as seen from the side n points to.
func (m *meshBuilder) quad(c [4]mat.Vec3, n mat.Vec3) {
	base := uint32(len(m.pos) / 3)
	for _, v := range c {
		m.pos = append(m.pos, v[0], v[1], v[2])
		if m.normals {
			m.nrm = append(m.nrm, n[0], n[1], n[2])
		}
	}
	m.idx = append(m.idx, base, base+1, base+2, base, base+2, base+3)
}

// box appends the four walls and the roof of a block-sized building. The
// floor is omitted since it is never visible.
func (m *meshBuilder) box(x0, y0, x1, y1, h float32) {
	m.quad(flatQuad(x0, y0, x1, y1, h), mat.Vec3{0, 0, 1})
	m.quad([4]mat.Vec3{{x0, y0, 0}, {x1, y0, 0}, {x1, y0, h}, {x0, y0, h}}, mat.Vec3{0, -1, 0})
	m.quad([4]mat.Vec3{{x1, y1, 0}, {x0, y1, 0}, {x0, y1, h}, {x1, y1, h}}, mat.Vec3{0, 1, 0})
	m.quad([4]mat.Vec3{{x1, y0, 0}, {x1, y1, 0}, {x1, y1, h}, {x1, y0, h}}, mat.Vec3{1, 0, 0})
	m.quad([4]mat.Vec3{{x0, y1, 0}, {x0, y0, 0}, {x0, y0, h}, {x0, y1, h}}, mat.Vec3{-1, 0, 0})
}

func (m *meshBuilder) entry(color []float32) sceneio.Entry {
	e := sceneio.Entry{
		Coordinates: m.pos,
		Indices:     m.idx,
		Color:       append([]float32(nil), color...),
	}
	if e.Coordinates == nil {
		e.Coordinates = []float32{}
	}
	if e.Indices == nil {
		e.Indices = []uint32{}
	}
	if m.normals {
		e.Normals = m.nrm
		if e.Normals == nil {
			e.Normals = []float32{}
		}
	}
	return e
}

// flatQuad returns a horizontal rectangle at height z, counter-clockwise from above.
func flatQuad(x0, y0, x1, y1, z float32) [4]mat.Vec3 {
	return [4]mat.Vec3{{x0, y0, z}, {x1, y0, z}, {x1, y1, z}, {x0, y1, z}}
}

// fractalValueNoise2D is simple fractal value noise: layered smooth value noise with
// configurable octaves, lacunarity, and gain. Output is in [0,1].
func fractalValueNoise2D(x, y float32, seed int64, octaves int, lacunarity, gain float32) float32 {
	var sum float32
	var amplitude float32 = 1
	var maxAmp float32 = 0
	freq := float32(1)

	for i := 0; i < octaves; i++ {
		n := valueNoise2D(x*freq, y*freq, int32(seed)+int32(i))
		sum += n * amplitude
		maxAmp += amplitude
		amplitude *= gain
		freq *= lacunarity
	}
	if maxAmp == 0 {
		return 0
	}
	return sum / maxAmp
}

// valueNoise2D is smooth value noise in [0,1] using a hash-based lattice and bicubic-like easing.
func valueNoise2D(x, y float32, seed int32) float32 {
	x0 := int32(math.Floor(float64(x)))
	y0 := int32(math.Floor(float64(y)))
	tx := x - float32(x0)
	ty := y - float32(y0)

	// Lattice values at cell corners.
	v00 := hash2D(x0, y0, seed)
	v10 := hash2D(x0+1, y0, seed)
	v01 := hash2D(x0, y0+1, seed)
	v11 := hash2D(x0+1, y0+1, seed)

	// Smooth interpolation.
	sx := smoothStep(tx)
	sy := smoothStep(ty)

	ix0 := lerp(v00, v10, sx)
	ix1 := lerp(v01, v11, sx)
	return lerp(ix0, ix1, sy)
}

// hash2D maps integer lattice coordinates to a deterministic pseudo-random float in [0,1].
func hash2D(x, y, seed int32) float32 {
	n := x*374761393 + y*668265263 + seed*362437
	n = (n ^ (n >> 13)) * 1274126177
	n = n ^ (n >> 16)
	// Convert to [0,1]
	const invMaxInt = 1.0 / 2147483647.0
	return float32(n&0x7fffffff) * float32(invMaxInt)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// smoothStep is Perlin-style cubic easing: 3t^2 - 2t^3.
func smoothStep(t float32) float32 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

func isFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

