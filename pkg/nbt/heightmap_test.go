package nbt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMotionBlockingHeightmapNotEmpty(t *testing.T) {
	b, err := MotionBlockingHeightmap()
	require.NoError(t, err)
	require.NotEmpty(t, b)
}
