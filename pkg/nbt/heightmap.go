// Package nbt builds the small NBT payloads the chunk packet embeds,
// wrapping the github.com/Tnze/go-mc/nbt encoder rather than hand-rolling a
// tag writer.
package nbt

import (
	"bytes"

	gonbt "github.com/Tnze/go-mc/nbt"
)

// heightmaps holds the heightmap of one chunk data packet: 37 packed
// 64-bit words, each bit-packed at 9 bits per entry for a 16x16 column of
// 9-bit height values. This server never tracks real surface heights, so
// every word is zero — a flat "nothing built above" heightmap, matching
// what a freshly generated chunk with no accumulated light data reports.
type heightmaps struct {
	MotionBlocking []int64 `nbt:"MOTION_BLOCKING"`
}

// MotionBlockingHeightmap returns the encoded NBT compound for a chunk's
// MOTION_BLOCKING heightmap: a single LongArray tag of 37 zero-valued longs
// under an unnamed root compound.
func MotionBlockingHeightmap() ([]byte, error) {
	hm := heightmaps{MotionBlocking: make([]int64, 37)}

	var buf bytes.Buffer
	enc := gonbt.NewEncoder(&buf)
	if err := enc.Encode(hm, ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
