package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mars762/server/pkg/block"
)

func TestWorldCacheIdempotence(t *testing.T) {
	w := NewWorld(762)
	pos := ChunkPos{X: 2, Z: -1}

	first := w.GetChunk(pos)
	for i := 0; i < 5; i++ {
		require.Same(t, first, w.GetChunk(pos))
	}
}

func TestSectionIndexFixedPrecedence(t *testing.T) {
	// 4 + (y>>4), not (4+y)>>4 - these diverge for negative y.
	require.Equal(t, 4, SectionIndex(0))
	require.Equal(t, 0, SectionIndex(-64))
	require.Equal(t, 3, SectionIndex(-16))
	require.Equal(t, 23, SectionIndex(319))
}

func TestGenerateChunkMaterializesThreeTiers(t *testing.T) {
	gen := NewGenerator(1234)
	c := gen.GenerateChunk(ChunkPos{X: 0, Z: 0})

	h := gen.heightAt(0, 0)
	require.Equal(t, block.Stone.ID, c.BlockAt(0, h-10, 0).ID)
	require.Equal(t, block.GrassBlock.ID, c.BlockAt(0, h-1, 0).ID)
	require.Equal(t, block.Air.ID, c.BlockAt(0, h+5, 0).ID)
}
