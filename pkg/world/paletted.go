package world

import (
	"bytes"
	"sort"

	"github.com/mars762/server/pkg/protocol"
)

// PalettedContainer is the wire-ready form of one section's block states:
// a bits-per-entry width, the palette that maps local indices to global ids
// (empty in direct mode), and the bit-packed data words.
type PalettedContainer struct {
	BitsPerEntry byte
	Palette      []int32 // unused when BitsPerEntry == 15 (direct)
	Data         []uint64
}

// bitsPerEntryFor chooses a width from the number of distinct ids seen,
// following the fixed threshold table: 1->0, <=16->4, <=32->5, <=64->6,
// <=128->7, <=256->8, otherwise 15 (direct).
func bitsPerEntryFor(paletteSize int) byte {
	switch {
	case paletteSize <= 1:
		return 0
	case paletteSize <= 16:
		return 4
	case paletteSize <= 32:
		return 5
	case paletteSize <= 64:
		return 6
	case paletteSize <= 128:
		return 7
	case paletteSize <= 256:
		return 8
	default:
		return 15
	}
}

// BuildBlockStatesContainer scans a section's 4096 blocks in y,z,x order,
// builds its palette, and bit-packs the resulting indices.
func BuildBlockStatesContainer(sec *ChunkSection) *PalettedContainer {
	seen := make(map[int32]struct{})
	ids := make([]int32, 0, 4096)
	for y := 0; y < 16; y++ {
		for z := 0; z < 16; z++ {
			for x := 0; x < 16; x++ {
				id := sec.Blocks[y][z][x].ID
				ids = append(ids, id)
				seen[id] = struct{}{}
			}
		}
	}

	palette := make([]int32, 0, len(seen))
	for id := range seen {
		palette = append(palette, id)
	}
	sort.Slice(palette, func(i, j int) bool { return palette[i] < palette[j] })

	bits := bitsPerEntryFor(len(palette))

	var indexOf map[int32]int32
	if bits != 15 {
		indexOf = make(map[int32]int32, len(palette))
		for i, id := range palette {
			indexOf[id] = int32(i)
		}
	}

	entries := make([]uint64, len(ids))
	for i, id := range ids {
		if bits == 15 {
			entries[i] = uint64(id)
		} else if bits == 0 {
			entries[i] = 0
		} else {
			entries[i] = uint64(indexOf[id])
		}
	}

	data := packEntries(entries, bits)

	if bits == 0 {
		return &PalettedContainer{BitsPerEntry: 0, Palette: palette, Data: nil}
	}
	if bits == 15 {
		return &PalettedContainer{BitsPerEntry: 15, Palette: nil, Data: data}
	}
	return &PalettedContainer{BitsPerEntry: bits, Palette: palette, Data: data}
}

// packEntries bit-packs entries into little-endian u64 words, bits wide
// each, y,z,x order already reflected in the input slice. No entry straddles
// a word boundary: once the next entry would overflow the current word, the
// packer advances to a fresh word instead of splitting it.
func packEntries(entries []uint64, bits byte) []uint64 {
	if bits == 0 {
		return nil
	}
	perWord := 64 / int(bits)
	outLen := (len(entries) + perWord - 1) / perWord
	out := make([]uint64, outLen)

	wordIdx := 0
	offset := uint(0)
	for _, e := range entries {
		if offset+uint(bits) > 64 {
			wordIdx++
			offset = 0
		}
		out[wordIdx] |= (e & ((1 << bits) - 1)) << offset
		offset += uint(bits)
	}
	return out
}

// biomesContainer is the fixed single-value biome container every section
// emits: bits_per_entry 0, sole palette value 55 (the plains biome id),
// no packed data.
func biomesContainer() *PalettedContainer {
	return &PalettedContainer{BitsPerEntry: 0, Palette: []int32{55}}
}

// WriteTo serializes the container's wire form: bits-per-entry byte,
// palette section shaped by that width, then VarInt word count and the
// packed words themselves.
func (p *PalettedContainer) WriteTo(w *bytes.Buffer) error {
	if err := protocol.WriteByte(w, p.BitsPerEntry); err != nil {
		return err
	}
	switch {
	case p.BitsPerEntry == 0:
		if _, err := protocol.WriteVarInt(w, p.Palette[0]); err != nil {
			return err
		}
	case p.BitsPerEntry <= 8:
		if _, err := protocol.WriteVarInt(w, int32(len(p.Palette))); err != nil {
			return err
		}
		for _, id := range p.Palette {
			if _, err := protocol.WriteVarInt(w, id); err != nil {
				return err
			}
		}
	}
	if _, err := protocol.WriteVarInt(w, int32(len(p.Data))); err != nil {
		return err
	}
	for _, word := range p.Data {
		if err := protocol.WriteUint64Raw(w, word); err != nil {
			return err
		}
	}
	return nil
}

// WriteSection serializes one section's full payload: the non-air block
// count, its block-states container, then the fixed biomes container.
func WriteSection(w *bytes.Buffer, sec *ChunkSection) error {
	nonAir := int16(sec.NonAirCount())
	var countBuf [2]byte
	countBuf[0] = byte(nonAir >> 8)
	countBuf[1] = byte(nonAir)
	if _, err := w.Write(countBuf[:]); err != nil {
		return err
	}

	states := BuildBlockStatesContainer(sec)
	if err := states.WriteTo(w); err != nil {
		return err
	}
	return biomesContainer().WriteTo(w)
}
