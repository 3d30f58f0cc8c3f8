package world

import "github.com/mars762/server/pkg/block"

// Generator produces chunk columns from a seeded 2D height field.
type Generator struct {
	Seed   int64
	height *Perlin
}

// NewGenerator creates a terrain generator from a seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		Seed:   seed,
		height: NewPerlin(seed),
	}
}

// heightAt returns the terrain surface height at world column (wx, wz).
func (g *Generator) heightAt(wx, wz int32) int32 {
	n := g.height.Noise2D(float64(wx)/100, float64(wz)/100)
	return int32(112 + 30*n)
}

// blockFor returns the block kind at world-y wy in a column whose surface
// height is h: STONE below h-5, DIRT in [h-5, h-1),
// GRASS_BLOCK in [h-1, h), AIR at or above h.
func blockFor(wy, h int32) block.Block {
	switch {
	case wy < h-5:
		return block.Stone
	case wy < h-1:
		return block.Dirt
	case wy < h:
		return block.GrassBlock
	default:
		return block.Air
	}
}

// GenerateChunk synthesizes a full 24-section column at pos: a 16x16 height
// sample over the chunk footprint, then three-tier materialization of every
// block by world-y against that per-column height.
func (g *Generator) GenerateChunk(pos ChunkPos) *Chunk {
	baseX := pos.X * 16
	baseZ := pos.Z * 16

	var heights [16][16]int32
	for lz := 0; lz < 16; lz++ {
		for lx := 0; lx < 16; lx++ {
			heights[lz][lx] = g.heightAt(baseX+int32(lx), baseZ+int32(lz))
		}
	}

	chunk := &Chunk{Pos: pos}
	for secIdx := 0; secIdx < SectionCount; secIdx++ {
		sec := NewChunkSection()
		baseY := int32(secIdx-4) * 16
		for ly := 0; ly < 16; ly++ {
			wy := baseY + int32(ly)
			for lz := 0; lz < 16; lz++ {
				for lx := 0; lx < 16; lx++ {
					h := heights[lz][lx]
					b := blockFor(wy, h)
					if b.ID != block.Air.ID {
						sec.Set(lx, ly, lz, b)
					}
				}
			}
		}
		chunk.Sections[secIdx] = sec
	}
	return chunk
}
