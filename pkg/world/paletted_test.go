package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mars762/server/pkg/block"
)

func TestPaletteMinimum(t *testing.T) {
	sec := NewChunkSection()
	for y := 0; y < 16; y++ {
		for z := 0; z < 16; z++ {
			for x := 0; x < 16; x++ {
				sec.Set(x, y, z, block.Stone)
			}
		}
	}

	c := BuildBlockStatesContainer(sec)
	require.EqualValues(t, 0, c.BitsPerEntry)
	require.Equal(t, []int32{block.Stone.ID}, c.Palette)
	require.Empty(t, c.Data)
}

func TestPaletteThreshold17Ids(t *testing.T) {
	sec := NewChunkSection()
	idx := 0
	for y := 0; y < 16 && idx < 17; y++ {
		for z := 0; z < 16 && idx < 17; z++ {
			sec.Set(0, y, z, block.Block{ID: int32(idx)})
			idx++
		}
	}
	// Fill the remainder with one of the 17 ids so the palette stays at 17.
	for y := 0; y < 16; y++ {
		for z := 0; z < 16; z++ {
			for x := 1; x < 16; x++ {
				sec.Set(x, y, z, block.Block{ID: 0})
			}
		}
	}

	c := BuildBlockStatesContainer(sec)
	require.EqualValues(t, 5, c.BitsPerEntry)
	require.Len(t, c.Palette, 17)
	require.Len(t, c.Data, 342) // ceil(4096 / (64/5)) = ceil(4096/12) = 342
}

func TestBitsPerEntryMonotonicity(t *testing.T) {
	cases := []struct {
		size int
		bits byte
	}{
		{1, 0},
		{16, 4},
		{32, 5},
		{64, 6},
		{128, 7},
		{256, 8},
		{257, 15},
	}
	for _, c := range cases {
		require.Equal(t, c.bits, bitsPerEntryFor(c.size), "size=%d", c.size)
	}
}

func TestPackEntriesNoStraddle(t *testing.T) {
	// bits=5: 12 entries per 64-bit word; entry 12 must start a fresh word,
	// not straddle the boundary at bit 60.
	entries := make([]uint64, 13)
	for i := range entries {
		entries[i] = uint64(i % 32)
	}
	out := packEntries(entries, 5)
	require.Len(t, out, 2)

	// Round-trip: unpack and compare.
	perWord := 64 / 5
	got := make([]uint64, 0, len(entries))
	for _, word := range out {
		for i := 0; i < perWord && len(got) < len(entries); i++ {
			got = append(got, (word>>(uint(i)*5))&0x1F)
		}
	}
	require.Equal(t, entries, got)
}

func TestPaletteRoundTripYZXOrder(t *testing.T) {
	sec := NewChunkSection()
	sec.Set(0, 0, 0, block.Stone) // x=0,y=0,z=0: first entry in y,z,x order
	sec.Set(1, 0, 0, block.Dirt)  // x=1,y=0,z=0: second entry

	c := BuildBlockStatesContainer(sec)
	require.True(t, c.BitsPerEntry == 4 || c.BitsPerEntry == 0)

	// Reconstruct the id sequence and confirm the first two entries match
	// the section read in y,z,x order (x innermost).
	idxOf := func(id int32) int32 {
		for i, p := range c.Palette {
			if p == id {
				return int32(i)
			}
		}
		t.Fatalf("id %d not in palette", id)
		return -1
	}
	bits := uint(c.BitsPerEntry)
	entry := func(n int) uint64 {
		perWord := 64 / int(bits)
		word := c.Data[n/perWord]
		offset := uint(n%perWord) * bits
		return (word >> offset) & ((1 << bits) - 1)
	}
	require.Equal(t, uint64(idxOf(block.Stone.ID)), entry(0))
	require.Equal(t, uint64(idxOf(block.Dirt.ID)), entry(1))
}
