package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorBytesRoundTrip(t *testing.T) {
	vectors := [][]float32{
		{},
		{0},
		{1.5, -2.25, 3.125},
		{math.MaxFloat32, -math.MaxFloat32, math.SmallestNonzeroFloat32},
		{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8},
	}

	for _, v := range vectors {
		got, err := BytesToVector(VectorToBytes(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestVectorToBytesLength(t *testing.T) {
	assert.Len(t, VectorToBytes(make([]float32, 7)), 28)
	assert.Empty(t, VectorToBytes(nil))
}

func TestBytesToVectorCorruptLength(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 9} {
		_, err := BytesToVector(make([]byte, n))
		assert.Error(t, err, "length %d should be rejected", n)
	}
}
