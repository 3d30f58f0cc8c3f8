package block

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqualityIsByID(t *testing.T) {
	a := Block{ID: 1, Name: "minecraft:stone"}
	b := Block{ID: 1, Name: "totally different display name"}
	require.True(t, a.Equal(b))
}

func TestByID(t *testing.T) {
	require.Equal(t, Stone, ByID(1))
	require.Equal(t, Air, ByID(999))
}
